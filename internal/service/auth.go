// Package service implements the credential-lifecycle workflows: login,
// registration, email verification and password reset. The engine is wired
// by constructor with its collaborators and returns the uniform
// {message, code, data} envelope that the transport layer serializes.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/portapro/portapro-api/internal/model"
	"github.com/portapro/portapro-api/internal/repository"
	"github.com/portapro/portapro-api/internal/response"
	"github.com/portapro/portapro-api/internal/utils"
)

// CredentialStore is the contract the engine consumes from the persistence
// layer. The production implementation is repository.UserRepo; tests use an
// in-memory fake. Lookups surface repository.ErrUserNotFound distinctly
// from an empty success, and Create surfaces repository.ErrEmailExists when
// the email uniqueness constraint fires.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, id uint64, upd repository.UserUpdate) (*model.User, error)
	Delete(ctx context.Context, id uint64) error
}

// Notifier delivers verification and reset codes by email. Calls are
// fire-and-forget from the engine's point of view: errors are logged and
// never fail the enclosing workflow.
type Notifier interface {
	SendConfirmation(ctx context.Context, u *model.User, token string) error
	SendPasswordReset(ctx context.Context, u *model.User, token string) error
}

// AuthService orchestrates the credential lifecycle. All collaborators are
// injected explicitly; there is no hidden registry.
type AuthService struct {
	store      CredentialStore
	notifier   Notifier
	jwtSecret  string
	sessionTTL int // minutes
	bcryptCost int
}

// NewAuthService wires the workflow engine.
func NewAuthService(store CredentialStore, notifier Notifier, jwtSecret string, sessionTTLMin, bcryptCost int) *AuthService {
	return &AuthService{
		store:      store,
		notifier:   notifier,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTLMin,
		bcryptCost: bcryptCost,
	}
}

// UserProfile is the externally observable form of a credential record.
// The password hash and pending token never appear here.
type UserProfile struct {
	ID            uint64    `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phoneNumber"`
	AgreedToTerms bool      `json:"agreedToTerms"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewUserProfile strips a credential record down to its public fields.
func NewUserProfile(u *model.User) UserProfile {
	return UserProfile{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		PhoneNumber:   u.PhoneNumber,
		AgreedToTerms: u.AgreedToTerms,
		Verified:      u.Verified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// SessionData is the payload returned by login and registration.
type SessionData struct {
	AccessToken string      `json:"access_token"`
	User        UserProfile `json:"user"`
}

// RegisterInput carries the validated registration fields.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Password    string
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password surface the same message so responses do not reveal which
// accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*response.Envelope, error) {
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, response.Unauthorized("Invalid credentials")
		}
		return nil, s.internal("login: find user", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, response.Unauthorized("Invalid credentials")
	}
	token, err := utils.NewSessionToken(s.jwtSecret, u.ID, u.Email, s.sessionTTL)
	if err != nil {
		return nil, s.internal("login: issue session token", err)
	}
	data := SessionData{AccessToken: token.Token, User: NewUserProfile(u)}
	return response.New("Login successful", http.StatusOK, data), nil
}

// Register creates a credential record, stores a fresh verification code,
// dispatches the confirmation email and issues a session token. Notifier
// failure does not roll back the created record.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*response.Envelope, error) {
	if _, err := s.store.FindByEmail(ctx, in.Email); err == nil {
		return nil, response.Conflict("Email already in use")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, s.internal("register: find user", err)
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, s.internal("register: hash password", err)
	}
	u := &model.User{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		PhoneNumber:   in.PhoneNumber,
		PasswordHash:  hash,
		AgreedToTerms: true,
		Verified:      false,
	}
	if err := s.store.Create(ctx, u); err != nil {
		// Lost a registration race for the same email.
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, response.Conflict("Email already in use")
		}
		return nil, s.internal("register: create user", err)
	}

	if err := s.issuePendingToken(ctx, u, s.notifier.SendConfirmation); err != nil {
		return nil, err
	}

	token, err := utils.NewSessionToken(s.jwtSecret, u.ID, u.Email, s.sessionTTL)
	if err != nil {
		return nil, s.internal("register: issue session token", err)
	}
	data := SessionData{AccessToken: token.Token, User: NewUserProfile(u)}
	return response.New("Registration successful", http.StatusCreated, data), nil
}

// VerifyEmail consumes a pending verification code. The verified flag flips
// to true exactly once; the pending slot is cleared on success.
func (s *AuthService) VerifyEmail(ctx context.Context, email, suppliedToken string) (*response.Envelope, error) {
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, response.BadRequest("Invalid email")
		}
		return nil, s.internal("verify email: find user", err)
	}
	if u.PendingToken == nil || *u.PendingToken != suppliedToken {
		return nil, response.Unauthorized("Invalid or expired confirmation token")
	}

	verified := true
	if _, err := s.store.Update(ctx, u.ID, repository.UserUpdate{
		Verified:     &verified,
		PendingToken: nullToken(),
	}); err != nil {
		return nil, s.internal("verify email: update user", err)
	}
	return response.New("Email successfully verified", http.StatusOK, nil), nil
}

// ResendConfirmation issues a fresh verification code for an account,
// replacing any previously pending one.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) (*response.Envelope, error) {
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, response.BadRequest("Email not found")
		}
		return nil, s.internal("resend confirmation: find user", err)
	}
	if err := s.issuePendingToken(ctx, u, s.notifier.SendConfirmation); err != nil {
		return nil, err
	}
	return response.New("Confirmation email sent", http.StatusOK, nil), nil
}

// StartPasswordReset issues a reset code and dispatches it by email. The
// code lands in the same pending slot as verification codes, so starting a
// reset invalidates any outstanding verification code and vice versa.
func (s *AuthService) StartPasswordReset(ctx context.Context, email string) (*response.Envelope, error) {
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, response.BadRequest("Email not found")
		}
		return nil, s.internal("start reset: find user", err)
	}
	if err := s.issuePendingToken(ctx, u, s.notifier.SendPasswordReset); err != nil {
		return nil, err
	}
	return response.New("Password reset email sent", http.StatusOK, nil), nil
}

// EndPasswordReset consumes a reset code and replaces the password hash.
// Unknown email and token mismatch share one outcome.
func (s *AuthService) EndPasswordReset(ctx context.Context, email, suppliedToken, newPassword string) (*response.Envelope, error) {
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, response.Unauthorized("Invalid reset token")
		}
		return nil, s.internal("end reset: find user", err)
	}
	if u.PendingToken == nil || *u.PendingToken != suppliedToken {
		return nil, response.Unauthorized("Invalid reset token")
	}

	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return nil, s.internal("end reset: hash password", err)
	}
	if _, err := s.store.Update(ctx, u.ID, repository.UserUpdate{
		PasswordHash: &hash,
		PendingToken: nullToken(),
	}); err != nil {
		return nil, s.internal("end reset: update user", err)
	}
	return response.New("Password successfully reset", http.StatusOK, nil), nil
}

// issuePendingToken generates a fresh code, stores it in the user's pending
// slot (overwriting any prior code) and dispatches it through send. Notify
// failures are logged, never propagated.
func (s *AuthService) issuePendingToken(ctx context.Context, u *model.User, send func(context.Context, *model.User, string) error) error {
	code, err := utils.NewVerificationCode()
	if err != nil {
		return s.internal("generate code", err)
	}
	if _, err := s.store.Update(ctx, u.ID, repository.UserUpdate{
		PendingToken: setToken(code),
	}); err != nil {
		return s.internal("store pending token", err)
	}
	if err := send(ctx, u, code); err != nil {
		log.Printf("auth: notify %s failed: %v", u.Email, err)
	}
	return nil
}

// internal logs the underlying cause and returns the opaque failure exposed
// to clients.
func (s *AuthService) internal(op string, err error) error {
	log.Printf("auth: %s: %v", op, err)
	return response.Internal("Internal server error")
}

func setToken(code string) *sql.NullString {
	return &sql.NullString{String: code, Valid: true}
}

func nullToken() *sql.NullString {
	return &sql.NullString{}
}
