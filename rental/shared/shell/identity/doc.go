// Package identity resolves bearer tokens into the core.Actor that every command and query
// receives explicitly.
//
// Tokens are HS256 JWTs whose subject is the borrower id. Role and borrow limit are not taken
// from the token: they are loaded fresh from the borrower store on every call, so a changed
// role or limit applies immediately.
package identity
