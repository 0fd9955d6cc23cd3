// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/cinevault/internal/platform/apperr"
	"github.com/taibuivan/cinevault/internal/platform/constants"
	"github.com/taibuivan/cinevault/internal/platform/mailer"
	"github.com/taibuivan/cinevault/internal/platform/sec"
	"github.com/taibuivan/cinevault/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating stateless access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - email: The email of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, email string, timeToLive time.Duration) (string, error)
}

// TTLConfig carries the validity windows for every token class, sourced from
// the application configuration.
type TTLConfig struct {
	Access     time.Duration
	Refresh    time.Duration
	Activation time.Duration
	Reset      time.Duration
}

// Service implements the authentication and token lifecycle use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// issuance, or redemption logic must be reviewed by the security team.
type Service struct {
	userRepository       UserRepository
	activationRepository SingletonTokenRepository
	resetRepository      SingletonTokenRepository
	refreshRepository    RefreshTokenRepository
	tokenProvider        TokenProvider
	mail                 mailer.Mailer
	timeToLive           TTLConfig
	publicBaseURL        string
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	activationRepo SingletonTokenRepository,
	resetRepo SingletonTokenRepository,
	refreshRepo RefreshTokenRepository,
	tokenProv TokenProvider,
	mail mailer.Mailer,
	timeToLive TTLConfig,
	publicBaseURL string,
) *Service {
	return &Service{
		userRepository:       userRepo,
		activationRepository: activationRepo,
		resetRepository:      resetRepo,
		refreshRepository:    refreshRepo,
		tokenProvider:        tokenProv,
		mail:                 mail,
		timeToLive:           timeToLive,
		publicBaseURL:        publicBaseURL,
	}
}

// # Registration & Activation

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new inactive member in the default USER group, then
issues an activation token delivered by mail.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if the email is taken) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	email := normalizeEmail(input.Email)

	// Verify email uniqueness. Return a client-safe Conflict err.
	// The UNIQUE constraint on users.account(email) backstops this check.
	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.Conflict("Email already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		IsActive:     false,
		Role:         sec.RoleUser,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	// Issue the activation token as a best-effort side effect; the account
	// exists either way and resend-activation covers delivery failures.
	_ = service.issueActivation(context, user)

	return user, nil
}

/*
Activate redeems an activation token and unlocks the account.

Description: The token is looked up by digest; on success the account is
marked active and ALL of the user's activation tokens are burned in one
transaction, so a second redemption of the same token fails.

Parameters:
  - context: context.Context
  - token: string (opaque value from the activation link)

Returns:
  - err: BadRequest for unknown or expired tokens, or storage failures
*/
func (service *Service) Activate(context context.Context, token string) error {
	record, err := service.activationRepository.FindByHash(context, sec.HashToken(token))
	if err != nil {
		return apperr.BadRequest("Invalid or expired token")
	}

	// Expired rows stay in place; the next issuance replaces them.
	if record.IsExpired() {
		return apperr.BadRequest("Invalid or expired token")
	}

	if err := service.userRepository.Activate(context, record.UserID); err != nil {
		return fmt.Errorf("auth_service_activate_failed: %w", err)
	}

	return nil
}

/*
ResendActivation re-issues the activation token for a dormant account.

Description: Responds identically whether or not the email is registered, to
prevent account enumeration. Already-active accounts are silently skipped.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - err: Issuance or storage failures (never "account not found")
*/
func (service *Service) ResendActivation(context context.Context, email string) error {
	user, err := service.userRepository.FindByEmail(context, normalizeEmail(email))
	if err != nil {
		return nil
	}

	if user.IsActive {
		return nil
	}

	if err := service.issueActivation(context, user); err != nil {
		return fmt.Errorf("auth_service_resend_activation_failed: %w", err)
	}

	return nil
}

// issueActivation mints a fresh activation token for the user, replacing any
// live one, and mails the activation link.
func (service *Service) issueActivation(context context.Context, user *User) error {
	plain, err := sec.GenerateSecureToken(constants.ActivationTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_activation_failed: %w", err)
	}

	record := &Token{
		ID:        uuidv7.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(plain),
		ExpiresAt: time.Now().Add(service.timeToLive.Activation),
	}

	if err := service.activationRepository.Replace(context, record); err != nil {
		return fmt.Errorf("auth_service_store_activation_failed: %w", err)
	}

	link := fmt.Sprintf("%s/api/v1/auth/activate?token=%s", service.publicBaseURL, plain)
	_ = service.mail.Send(context, user.Email, "Activate your Cinevault account",
		"Follow this link to activate your account: "+link)

	return nil
}

// # Sessions

// TokenPair is the transport-ready result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

/*
Login validates user credentials and issues an access/refresh token pair.

Description: Performs constant-time password comparison via bcrypt, rejects
dormant accounts, and persists the refresh token digest.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *TokenPair: Transport-ready session credentials
  - err: Unauthorized (bad credentials), Forbidden (inactive), or internal failures
*/
func (service *Service) Login(context context.Context, email, password string) (*TokenPair, error) {
	user, err := service.userRepository.FindByEmail(context, normalizeEmail(email))

	// Generic message on both missing-user and bad-password to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	// Dormant accounts hold valid credentials but may not open sessions.
	if !user.IsActive {
		return nil, apperr.Forbidden("Account not activated")
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, service.timeToLive.Access)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(constants.RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	record := &Token{
		ID:        uuidv7.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(service.timeToLive.Refresh),
	}
	if err := service.refreshRepository.Create(context, record); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_store_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

/*
Refresh exchanges a valid refresh token for a new access token.

Description: The refresh token itself is NOT rotated — the same opaque value
is returned alongside the fresh access token. An expired refresh token is
revoked (deleted) as a side effect of the failed attempt, forcing re-login.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *TokenPair: New access token with the unchanged refresh token
  - err: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*TokenPair, error) {
	record, err := service.refreshRepository.FindByHash(context, sec.HashToken(refreshToken))
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	if record.IsExpired() {
		// Revoke the stale row so the same token can never be presented again.
		_ = service.refreshRepository.Delete(context, record.ID)
		return nil, apperr.Unauthorized("Refresh token expired")
	}

	user, err := service.userRepository.FindByID(context, record.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, service.timeToLive.Access)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

/*
Logout revokes the presented refresh token.

Description: Deletes the matching row so the token can never be redeemed
again. Unknown tokens are rejected rather than treated as a silent success.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Unauthorized when the token is unknown, or revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	record, err := service.refreshRepository.FindByHash(context, sec.HashToken(refreshToken))
	if err != nil {
		return apperr.Unauthorized("Invalid refresh token")
	}

	if err := service.refreshRepository.Delete(context, record.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Password Recovery

/*
ForgotPassword initiates the password recovery flow.

Description: Issues a reset token (replacing any live one) and mails the
reset link. Responds identically whether or not the email is registered.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - err: Issuance failures (never "account not found")
*/
func (service *Service) ForgotPassword(context context.Context, email string) error {
	user, err := service.userRepository.FindByEmail(context, normalizeEmail(email))
	if err != nil {
		return nil
	}

	plain, err := sec.GenerateSecureToken(constants.ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	record := &Token{
		ID:        uuidv7.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(plain),
		ExpiresAt: time.Now().Add(service.timeToLive.Reset),
	}
	if err := service.resetRepository.Replace(context, record); err != nil {
		return fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", service.publicBaseURL, plain)
	_ = service.mail.Send(context, user.Email, "Reset your Cinevault password",
		"Follow this link to reset your password: "+link)

	return nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, updates the password hash, and deletes ALL
of the user's reset tokens so the link is single-use.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: BadRequest for unknown or expired tokens, or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	record, err := service.resetRepository.FindByHash(context, sec.HashToken(token))
	if err != nil {
		return apperr.BadRequest("Invalid or expired token")
	}

	if record.IsExpired() {
		return apperr.BadRequest("Invalid or expired token")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, record.UserID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Delete-after-use: the whole family goes, not just the redeemed row.
	_ = service.resetRepository.DeleteForUser(context, record.UserID)

	return nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Parameters:
  - context: context.Context
  - userID: string
  - oldPassword: string
  - newPassword: string

Returns:
  - err: BadRequest when the old password does not match, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, oldPassword, newPassword string) error {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperr.BadRequest("Old password is incorrect.")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

// # Identity Resolution

/*
ResolveIdentity turns a verified token subject into a live principal.

Description: Backs the access gate — called by the authentication middleware
on every bearer request to confirm the account still exists and to load its
current role.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *sec.Principal: Identity snapshot for the request context
  - err: Resolution failures (account deleted since issuance)
*/
func (service *Service) ResolveIdentity(context context.Context, userID string) (*sec.Principal, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	return &sec.Principal{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

// normalizeEmail lowercases and trims an email for comparison and storage.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
