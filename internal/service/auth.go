package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/trashtdl/todosync-server/internal/logger"
	"github.com/trashtdl/todosync-server/internal/model"
)

// RegisterParams contains parameters for starting a registration.
type RegisterParams struct {
	Email    string
	Username string
	Password string
}

// LoginParams contains parameters for logging in. Identifier is an email
// address or a username.
type LoginParams struct {
	Identifier string
	Password   string
}

// Auth implements the registration, verification and login flows around the
// credential codec.
type Auth struct {
	accountStore model.AccountStore
	signupStore  model.SignupStore
	hasher       model.PasswordHasher
	tokenManager model.TokenManager
	mailer       model.Mailer
	clock        model.Clock
	logger       *logger.Logger
}

// NewAuth creates a new authentication service.
func NewAuth(
	accountStore model.AccountStore,
	signupStore model.SignupStore,
	hasher model.PasswordHasher,
	tokenManager model.TokenManager,
	mailer model.Mailer,
	clock model.Clock,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		accountStore: accountStore,
		signupStore:  signupStore,
		hasher:       hasher,
		tokenManager: tokenManager,
		mailer:       mailer,
		clock:        clock,
		logger:       logger,
	}
}

// Register stores a pending registration and sends a verification email.
// Email and username must be unique across both accounts and other pending
// registrations. Mail delivery failure is logged but does not fail the
// registration; the code stays redeemable.
func (a *Auth) Register(ctx context.Context, params RegisterParams) error {
	if err := a.checkSubjectFree(ctx, params.Email, model.ErrEmailTaken); err != nil {
		return err
	}
	if err := a.checkSubjectFree(ctx, params.Username, model.ErrUsernameTaken); err != nil {
		return err
	}

	if taken, err := a.signupStore.ExistsByEmail(ctx, params.Email); err != nil {
		return fmt.Errorf("failed to check pending email: %w", err)
	} else if taken {
		return model.ErrEmailTaken
	}
	if taken, err := a.signupStore.ExistsByUsername(ctx, params.Username); err != nil {
		return fmt.Errorf("failed to check pending username: %w", err)
	} else if taken {
		return model.ErrUsernameTaken
	}

	passwordHash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	pending := model.PendingRegistration{
		ID:               uuid.New(),
		Email:            params.Email,
		Username:         params.Username,
		PasswordHash:     passwordHash,
		VerificationCode: uuid.NewString(),
		CreatedAt:        a.clock.Now(),
	}

	if err := a.signupStore.Create(ctx, pending); err != nil {
		return fmt.Errorf("failed to create pending registration: %w", err)
	}

	a.logger.Info("Auth service: pending registration saved",
		"email", params.Email)

	if err := a.mailer.SendVerification(ctx, params.Email, pending.VerificationCode); err != nil {
		a.logger.Error("Auth service: failed to send verification email",
			"email", params.Email,
			"error", err.Error())
	}

	return nil
}

// Verify redeems a verification code, promoting the pending registration to an
// account. A code older than model.VerificationCodeTTL is discarded and
// reported as expired, distinct from an unknown code.
func (a *Auth) Verify(ctx context.Context, code string) error {
	pending, err := a.signupStore.GetByCode(ctx, code)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrVerificationCodeInvalid
	}
	if err != nil {
		return fmt.Errorf("failed to get pending registration: %w", err)
	}

	now := a.clock.Now()
	if now.Sub(pending.CreatedAt) > model.VerificationCodeTTL {
		if err := a.signupStore.Delete(ctx, pending.ID); err != nil {
			a.logger.Error("Auth service: failed to discard expired registration",
				"email", pending.Email,
				"error", err.Error())
		}
		return model.ErrVerificationCodeExpired
	}

	account := model.Account{
		ID:           uuid.New(),
		Email:        pending.Email,
		Username:     pending.Username,
		PasswordHash: pending.PasswordHash,
		Status:       model.AccountActive,
		CreatedAt:    now,
	}

	if _, err := a.accountStore.Create(ctx, account); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	if err := a.signupStore.Delete(ctx, pending.ID); err != nil {
		return fmt.Errorf("failed to consume pending registration: %w", err)
	}

	a.logger.Info("Auth service: account verified and created",
		"email", pending.Email)

	return nil
}

// Login verifies a password for an email-or-username identifier and issues a
// session credential. Unknown identifiers, disabled accounts and wrong
// passwords all map to ErrLoginFailed.
func (a *Auth) Login(ctx context.Context, params LoginParams) (model.Session, error) {
	account, err := a.accountStore.GetBySubject(ctx, params.Identifier)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.ErrLoginFailed
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get account: %w", err)
	}

	if account.Status != model.AccountActive {
		return model.Session{}, model.ErrLoginFailed
	}

	if err := a.hasher.Compare(account.PasswordHash, params.Password); err != nil {
		return model.Session{}, model.ErrLoginFailed
	}

	tokenString, err := a.tokenManager.Issue(account.ID, account.Email, a.clock.Now())
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login successful",
		"account_id", account.ID)

	return model.Session{
		Token:     tokenString,
		AccountID: account.ID,
	}, nil
}

func (a *Auth) checkSubjectFree(ctx context.Context, subject string, takenErr error) error {
	_, err := a.accountStore.GetBySubject(ctx, subject)
	if err == nil {
		return takenErr
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to check subject: %w", err)
	}
	return nil
}
