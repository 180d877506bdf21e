package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

var (
	// ErrEmptySecret is returned when an Authenticator is created without a signing secret.
	ErrEmptySecret = errors.New("jwt secret must not be empty")

	// ErrInvalidToken is returned for tokens that fail signature, expiry, issuer or subject checks.
	// It always comes joined with core.ErrUnauthorized.
	ErrInvalidToken = errors.New("invalid token")

	// ErrIssuingTokenFailed is returned when signing fails.
	ErrIssuingTokenFailed = errors.New("issuing token failed")
)

// BorrowerLookup loads borrowers by id.
type BorrowerLookup interface {
	BorrowerByID(ctx context.Context, id uuid.UUID) (ledger.Borrower, error)
}

// Authenticator issues and verifies borrower tokens.
type Authenticator struct {
	secret    []byte
	issuer    string
	ttl       time.Duration
	borrowers BorrowerLookup
	now       func() time.Time
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithIssuer sets the iss claim that is written and required.
func WithIssuer(issuer string) Option {
	return func(a *Authenticator) {
		a.issuer = issuer
	}
}

// WithTTL sets the lifetime of issued tokens.
func WithTTL(ttl time.Duration) Option {
	return func(a *Authenticator) {
		a.ttl = ttl
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		a.now = now
	}
}

// NewAuthenticator creates an Authenticator signing with secret.
func NewAuthenticator(secret string, borrowers BorrowerLookup, options ...Option) (*Authenticator, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	a := &Authenticator{
		secret:    []byte(secret),
		ttl:       time.Hour,
		borrowers: borrowers,
		now:       time.Now,
	}

	for _, option := range options {
		option(a)
	}

	return a, nil
}

// Issue creates a signed token for the borrower.
func (a *Authenticator) Issue(borrowerID uuid.UUID) (string, error) {
	now := a.now()

	claims := jwt.RegisteredClaims{
		Subject:   borrowerID.String(),
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", errors.Join(ErrIssuingTokenFailed, err)
	}

	return signed, nil
}

// Authenticate resolves a token, with or without "Bearer " prefix, into an Actor.
// An empty token yields the anonymous actor. A token for an unknown borrower is rejected.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (core.Actor, error) {
	token = strings.TrimSpace(token)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}

	if token == "" {
		return core.AnonymousActor(), nil
	}

	borrowerID, err := a.verify(token)
	if err != nil {
		return core.AnonymousActor(), err
	}

	borrower, err := a.borrowers.BorrowerByID(ctx, borrowerID)
	if errors.Is(err, ledger.ErrBorrowerNotFound) {
		return core.AnonymousActor(), fmt.Errorf("%w: %w", core.ErrUnauthorized, err)
	}

	if err != nil {
		return core.AnonymousActor(), err
	}

	return core.ActorFromBorrower(borrower), nil
}

func (a *Authenticator) verify(token string) (uuid.UUID, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	}

	if a.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(a.issuer))
	}

	claims := new(jwt.RegisteredClaims)

	_, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return a.secret, nil
	}, parserOptions...)
	if err != nil {
		return uuid.Nil, errors.Join(core.ErrUnauthorized, ErrInvalidToken, err)
	}

	borrowerID, err := uuid.Parse(claims.Subject)
	if err != nil || borrowerID == uuid.Nil {
		return uuid.Nil, errors.Join(core.ErrUnauthorized, ErrInvalidToken, fmt.Errorf("subject %q is not a borrower id", claims.Subject))
	}

	return borrowerID, nil
}
