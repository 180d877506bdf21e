// Package config loads the runtime configuration of the movie rental ledger binaries and builds
// the infrastructure they need from it.
//
// Configuration is layered: built-in defaults, then an optional YAML file, then an optional
// .env file, then RENTAL_* environment variables. Later layers win.
//
// This package contains factory functions for creating database connections using different
// PostgreSQL drivers (pgx.Pool, sql.DB, sqlx.DB), the ledger store on top of them, a slog
// logger, and the OpenTelemetry providers for metrics and tracing.
//
// This package is part of the shell (infrastructure) layer.
package config
