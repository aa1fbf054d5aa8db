package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMissingCredential means no bearer credential was presented.
	ErrMissingCredential = errors.New("missing credential")
	// ErrInvalidCredential covers malformed, expired and revoked credentials as
	// well as unknown or disabled accounts. Callers must not learn which.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrEmailTaken and ErrUsernameTaken guard registration uniqueness across
	// accounts and pending registrations.
	ErrEmailTaken    = errors.New("email already in use")
	ErrUsernameTaken = errors.New("username already in use")

	// ErrVerificationCodeInvalid means the code matches no pending registration.
	ErrVerificationCodeInvalid = errors.New("invalid verification code")
	// ErrVerificationCodeExpired means the code was found but its window passed;
	// the pending registration is discarded and the user must register again.
	ErrVerificationCodeExpired = errors.New("verification code expired")

	// ErrLoginFailed covers unknown identifiers and wrong passwords alike.
	ErrLoginFailed = errors.New("invalid credentials")

	// ErrConcurrentUpdate is returned by ApplyBatch when another batch won a
	// per-entity timestamp race after this batch was planned.
	ErrConcurrentUpdate = errors.New("concurrent update")
)
