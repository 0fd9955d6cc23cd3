// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinevault/internal/platform/apperr"
	"github.com/taibuivan/cinevault/internal/platform/dberr"
	"github.com/taibuivan/cinevault/internal/platform/sec"
	"github.com/taibuivan/cinevault/internal/users/auth"
)

// # In-Memory Fakes

type fakeUserRepository struct {
	byID        map[string]*auth.User
	activations *fakeSingletonTokenRepository // burned on Activate, mirroring the store tx
}

func newFakeUserRepository(activations *fakeSingletonTokenRepository) *fakeUserRepository {
	return &fakeUserRepository{byID: map[string]*auth.User{}, activations: activations}
}

func (f *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	for _, existing := range f.byID {
		if existing.Email == user.Email {
			return dberr.ErrConflict
		}
	}
	clone := *user
	f.byID[user.ID] = &clone
	return nil
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepository) Activate(_ context.Context, userID string) error {
	user, ok := f.byID[userID]
	if !ok {
		return dberr.ErrNotFound
	}
	user.IsActive = true
	delete(f.activations.byUser, userID)
	return nil
}

func (f *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := f.byID[userID]
	if !ok {
		return dberr.ErrNotFound
	}
	user.PasswordHash = newHash
	return nil
}

type fakeSingletonTokenRepository struct {
	byUser map[string]*auth.Token
}

func newFakeSingletonTokenRepository() *fakeSingletonTokenRepository {
	return &fakeSingletonTokenRepository{byUser: map[string]*auth.Token{}}
}

func (f *fakeSingletonTokenRepository) Replace(_ context.Context, token *auth.Token) error {
	clone := *token
	f.byUser[token.UserID] = &clone
	return nil
}

func (f *fakeSingletonTokenRepository) FindByHash(_ context.Context, hash string) (*auth.Token, error) {
	for _, token := range f.byUser {
		if token.TokenHash == hash {
			clone := *token
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeSingletonTokenRepository) DeleteForUser(_ context.Context, userID string) error {
	delete(f.byUser, userID)
	return nil
}

type fakeRefreshTokenRepository struct {
	byID map[string]*auth.Token
}

func newFakeRefreshTokenRepository() *fakeRefreshTokenRepository {
	return &fakeRefreshTokenRepository{byID: map[string]*auth.Token{}}
}

func (f *fakeRefreshTokenRepository) Create(_ context.Context, token *auth.Token) error {
	clone := *token
	f.byID[token.ID] = &clone
	return nil
}

func (f *fakeRefreshTokenRepository) FindByHash(_ context.Context, hash string) (*auth.Token, error) {
	for _, token := range f.byID {
		if token.TokenHash == hash {
			clone := *token
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeRefreshTokenRepository) Delete(_ context.Context, tokenID string) error {
	delete(f.byID, tokenID)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _ string, _ time.Duration) (string, error) {
	return "access-" + userID, nil
}

// fakeMailer captures outbound mail so tests can extract emailed tokens.
type fakeMailer struct {
	lastTo   string
	lastBody string
	sent     int
}

func (f *fakeMailer) Send(_ context.Context, to, _, body string) error {
	f.lastTo = to
	f.lastBody = body
	f.sent++
	return nil
}

// lastToken pulls the opaque token out of the last emailed link.
func (f *fakeMailer) lastToken(t *testing.T) string {
	t.Helper()
	_, after, found := strings.Cut(f.lastBody, "token=")
	require.True(t, found, "mail body carries no token link: %q", f.lastBody)
	return after
}

// # Harness

type harness struct {
	service     *auth.Service
	users       *fakeUserRepository
	activations *fakeSingletonTokenRepository
	resets      *fakeSingletonTokenRepository
	refreshes   *fakeRefreshTokenRepository
	mail        *fakeMailer
}

func newHarness() *harness {
	activations := newFakeSingletonTokenRepository()
	resets := newFakeSingletonTokenRepository()
	refreshes := newFakeRefreshTokenRepository()
	users := newFakeUserRepository(activations)
	mail := &fakeMailer{}

	service := auth.NewService(
		users, activations, resets, refreshes,
		fakeTokenProvider{}, mail,
		auth.TTLConfig{
			Access:     15 * time.Minute,
			Refresh:    168 * time.Hour,
			Activation: 24 * time.Hour,
			Reset:      time.Hour,
		},
		"http://localhost:8080",
	)

	return &harness{
		service:     service,
		users:       users,
		activations: activations,
		resets:      resets,
		refreshes:   refreshes,
		mail:        mail,
	}
}

func (h *harness) register(t *testing.T, email string) *auth.User {
	t.Helper()
	user, err := h.service.Register(context.Background(), auth.RegisterInput{
		Email:    email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

func (h *harness) registerActive(t *testing.T, email string) *auth.User {
	t.Helper()
	user := h.register(t, email)
	require.NoError(t, h.service.Activate(context.Background(), h.mail.lastToken(t)))
	return user
}

// # Registration & Activation

/*
TestService_Register covers enrollment, email normalization, and conflicts.
*/
func TestService_Register(t *testing.T) {
	t.Run("creates_inactive_user_with_activation_mail", func(t *testing.T) {
		h := newHarness()

		user := h.register(t, "Tai@Cinevault.App")

		assert.Equal(t, "tai@cinevault.app", user.Email)
		assert.False(t, user.IsActive)
		assert.Equal(t, sec.RoleUser, user.Role)
		assert.NotEmpty(t, user.ID)

		assert.Equal(t, 1, h.mail.sent)
		assert.Equal(t, "tai@cinevault.app", h.mail.lastTo)
		assert.Len(t, h.activations.byUser, 1)
	})

	t.Run("duplicate_email_conflicts", func(t *testing.T) {
		h := newHarness()
		h.register(t, "tai@cinevault.app")

		_, err := h.service.Register(context.Background(), auth.RegisterInput{
			Email:    "TAI@cinevault.app",
			Password: "another-pass",
		})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 409, ae.HTTPStatus)
		assert.Equal(t, "Email already registered", ae.Message)
	})
}

/*
TestService_Activation exercises token redemption and its single-use guarantee.
*/
func TestService_Activation(t *testing.T) {
	t.Run("redeem_activates_and_burns_token", func(t *testing.T) {
		h := newHarness()
		user := h.register(t, "tai@cinevault.app")
		token := h.mail.lastToken(t)

		require.NoError(t, h.service.Activate(context.Background(), token))

		stored, err := h.users.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsActive)
		assert.Empty(t, h.activations.byUser, "activation tokens must be deleted on redemption")

		// Second redemption of the same token must fail.
		err = h.service.Activate(context.Background(), token)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)
		assert.Equal(t, "Invalid or expired token", ae.Message)
	})

	t.Run("unknown_token_rejected", func(t *testing.T) {
		h := newHarness()

		err := h.service.Activate(context.Background(), "no-such-token")

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)
	})

	t.Run("expired_token_rejected_but_kept", func(t *testing.T) {
		h := newHarness()
		user := h.register(t, "tai@cinevault.app")
		token := h.mail.lastToken(t)

		h.activations.byUser[user.ID].ExpiresAt = time.Now().Add(-time.Minute)

		err := h.service.Activate(context.Background(), token)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)

		// The stale row stays; the next issuance replaces it.
		assert.Len(t, h.activations.byUser, 1)
	})

	t.Run("resend_replaces_not_appends", func(t *testing.T) {
		h := newHarness()
		user := h.register(t, "tai@cinevault.app")
		firstHash := h.activations.byUser[user.ID].TokenHash

		require.NoError(t, h.service.ResendActivation(context.Background(), "tai@cinevault.app"))

		assert.Len(t, h.activations.byUser, 1, "a user holds at most one live activation token")
		assert.NotEqual(t, firstHash, h.activations.byUser[user.ID].TokenHash)
	})

	t.Run("resend_is_enumeration_safe", func(t *testing.T) {
		h := newHarness()

		assert.NoError(t, h.service.ResendActivation(context.Background(), "ghost@cinevault.app"))
		assert.Zero(t, h.mail.sent)
	})
}

// # Sessions

/*
TestService_Login walks the credential and account-state ladder.
*/
func TestService_Login(t *testing.T) {
	t.Run("unknown_email_unauthorized", func(t *testing.T) {
		h := newHarness()

		_, err := h.service.Login(context.Background(), "ghost@cinevault.app", "whatever")

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 401, ae.HTTPStatus)
		assert.Equal(t, "Invalid credentials", ae.Message)
	})

	t.Run("wrong_password_unauthorized", func(t *testing.T) {
		h := newHarness()
		h.registerActive(t, "tai@cinevault.app")

		_, err := h.service.Login(context.Background(), "tai@cinevault.app", "wrong-pass")

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 401, ae.HTTPStatus)
	})

	t.Run("inactive_account_forbidden", func(t *testing.T) {
		h := newHarness()
		h.register(t, "tai@cinevault.app")

		_, err := h.service.Login(context.Background(), "tai@cinevault.app", "correct-horse")

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 403, ae.HTTPStatus)
		assert.Equal(t, "Account not activated", ae.Message)
	})

	t.Run("active_account_gets_token_pair", func(t *testing.T) {
		h := newHarness()
		user := h.registerActive(t, "tai@cinevault.app")

		pair, err := h.service.Login(context.Background(), "tai@cinevault.app", "correct-horse")
		require.NoError(t, err)

		assert.Equal(t, "access-"+user.ID, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, "bearer", pair.TokenType)
		assert.Len(t, h.refreshes.byID, 1)
	})
}

/*
TestService_Refresh verifies the non-rotating refresh semantics and the
expiry revocation side effect.
*/
func TestService_Refresh(t *testing.T) {
	t.Run("valid_token_yields_new_access_same_refresh", func(t *testing.T) {
		h := newHarness()
		h.registerActive(t, "tai@cinevault.app")
		pair, err := h.service.Login(context.Background(), "tai@cinevault.app", "correct-horse")
		require.NoError(t, err)

		refreshed, err := h.service.Refresh(context.Background(), pair.RefreshToken)
		require.NoError(t, err)

		assert.Equal(t, pair.RefreshToken, refreshed.RefreshToken, "refresh tokens are not rotated")
		assert.Len(t, h.refreshes.byID, 1)
	})

	t.Run("expired_token_revoked_and_rejected", func(t *testing.T) {
		h := newHarness()
		h.registerActive(t, "tai@cinevault.app")
		pair, err := h.service.Login(context.Background(), "tai@cinevault.app", "correct-horse")
		require.NoError(t, err)

		for _, token := range h.refreshes.byID {
			token.ExpiresAt = time.Now().Add(-time.Minute)
		}

		_, err = h.service.Refresh(context.Background(), pair.RefreshToken)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 401, ae.HTTPStatus)
		assert.Equal(t, "Refresh token expired", ae.Message)
		assert.Empty(t, h.refreshes.byID, "expired refresh tokens are deleted on the failed attempt")
	})

	t.Run("logout_then_refresh_unauthorized", func(t *testing.T) {
		h := newHarness()
		h.registerActive(t, "tai@cinevault.app")
		pair, err := h.service.Login(context.Background(), "tai@cinevault.app", "correct-horse")
		require.NoError(t, err)

		require.NoError(t, h.service.Logout(context.Background(), pair.RefreshToken))

		_, err = h.service.Refresh(context.Background(), pair.RefreshToken)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 401, ae.HTTPStatus)
	})

	t.Run("logout_with_unknown_token_unauthorized", func(t *testing.T) {
		h := newHarness()

		err := h.service.Logout(context.Background(), "no-such-token")

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 401, ae.HTTPStatus)
	})
}

// # Password Recovery

/*
TestService_PasswordReset covers the forgot/reset round trip and single-use
token deletion.
*/
func TestService_PasswordReset(t *testing.T) {
	t.Run("round_trip_changes_password", func(t *testing.T) {
		h := newHarness()
		h.registerActive(t, "tai@cinevault.app")

		require.NoError(t, h.service.ForgotPassword(context.Background(), "tai@cinevault.app"))
		resetToken := h.mail.lastToken(t)

		require.NoError(t, h.service.ResetPassword(context.Background(), resetToken, "brand-new-pass"))

		// The old password no longer works; the new one does.
		_, err := h.service.Login(context.Background(), "tai@cinevault.app", "correct-horse")
		assert.Error(t, err)
		_, err = h.service.Login(context.Background(), "tai@cinevault.app", "brand-new-pass")
		assert.NoError(t, err)

		// Delete-after-use: the same token cannot be redeemed twice.
		err = h.service.ResetPassword(context.Background(), resetToken, "yet-another")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)
	})

	t.Run("forgot_replaces_not_appends", func(t *testing.T) {
		h := newHarness()
		user := h.registerActive(t, "tai@cinevault.app")

		require.NoError(t, h.service.ForgotPassword(context.Background(), "tai@cinevault.app"))
		firstHash := h.resets.byUser[user.ID].TokenHash
		require.NoError(t, h.service.ForgotPassword(context.Background(), "tai@cinevault.app"))

		assert.Len(t, h.resets.byUser, 1)
		assert.NotEqual(t, firstHash, h.resets.byUser[user.ID].TokenHash)
	})

	t.Run("forgot_is_enumeration_safe", func(t *testing.T) {
		h := newHarness()

		assert.NoError(t, h.service.ForgotPassword(context.Background(), "ghost@cinevault.app"))
		assert.Zero(t, h.mail.sent)
	})

	t.Run("expired_reset_token_rejected", func(t *testing.T) {
		h := newHarness()
		user := h.registerActive(t, "tai@cinevault.app")
		require.NoError(t, h.service.ForgotPassword(context.Background(), "tai@cinevault.app"))
		resetToken := h.mail.lastToken(t)

		h.resets.byUser[user.ID].ExpiresAt = time.Now().Add(-time.Minute)

		err := h.service.ResetPassword(context.Background(), resetToken, "brand-new-pass")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)
	})
}

/*
TestService_ChangePassword verifies the authenticated credential update.
*/
func TestService_ChangePassword(t *testing.T) {
	t.Run("wrong_old_password_rejected", func(t *testing.T) {
		h := newHarness()
		user := h.registerActive(t, "tai@cinevault.app")

		err := h.service.ChangePassword(context.Background(), user.ID, "wrong-old", "brand-new-pass")

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)
		assert.Equal(t, "Old password is incorrect.", ae.Message)
	})

	t.Run("correct_old_password_updates", func(t *testing.T) {
		h := newHarness()
		user := h.registerActive(t, "tai@cinevault.app")

		require.NoError(t, h.service.ChangePassword(context.Background(), user.ID, "correct-horse", "brand-new-pass"))

		_, err := h.service.Login(context.Background(), "tai@cinevault.app", "brand-new-pass")
		assert.NoError(t, err)
	})
}

// # Identity Resolution

/*
TestService_ResolveIdentity checks the principal projection used by the
access gate.
*/
func TestService_ResolveIdentity(t *testing.T) {
	h := newHarness()
	user := h.registerActive(t, "tai@cinevault.app")

	principal, err := h.service.ResolveIdentity(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, "tai@cinevault.app", principal.Email)
	assert.Equal(t, sec.RoleUser, principal.Role)

	_, err = h.service.ResolveIdentity(context.Background(), "missing-user")
	assert.Error(t, err)
}
