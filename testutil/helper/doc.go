// Package helper provides fixtures and observability spies shared by the tests of all packages.
package helper
