package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/akosenkov/fleetdesk/internal/common"
	"github.com/akosenkov/fleetdesk/internal/server/auth"
	"github.com/akosenkov/fleetdesk/internal/server/coherency"
	"github.com/akosenkov/fleetdesk/internal/server/kvstore"
	"github.com/akosenkov/fleetdesk/internal/server/lifecycle"
	"github.com/akosenkov/fleetdesk/internal/server/models"
	"github.com/akosenkov/fleetdesk/internal/server/passwords"
	"github.com/akosenkov/fleetdesk/internal/server/recovery"
)

type captureMailer struct {
	email string
	link  string
	sent  int
}

func (m *captureMailer) SendPasswordReset(_ context.Context, email, link string) error {
	m.email = email
	m.link = link
	m.sent++
	return nil
}

const testSecret = "test-secret"

func newUserFixture(t *testing.T) (*UserService, *fakeManager, *captureMailer) {
	t.Helper()
	m := newFakeManager()
	ch := coherency.NewService(coherency.NewVersionStore())
	rec := recovery.NewService(kvstore.NewMemoryStore(nil), recovery.DefaultTTL, nil)
	ml := &captureMailer{}
	svc := NewUserService(nil, m, ch, lifecycle.NewRules(nil), rec,
		passwords.NewBcryptHasher(bcrypt.MinCost), ml, testSecret, "http://localhost/reset")
	return svc, m, ml
}

func registerUser(t *testing.T, svc *UserService) *models.User {
	t.Helper()
	u, _, err := svc.Register(context.Background(), "admin", &models.User{
		UserName: "aldis", Email: "aldis@fleetdesk.example",
	}, "correct horse battery")
	require.NoError(t, err)
	return u
}

func TestUserService_Register(t *testing.T) {
	svc, m, _ := newUserFixture(t)

	u := registerUser(t, svc)
	require.NotZero(t, u.ID)

	stored, err := m.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "correct horse battery")
}

func TestUserService_Register_ShortPassword(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	_, _, err := svc.Register(context.Background(), "admin", &models.User{
		UserName: "aldis", Email: "aldis@fleetdesk.example",
	}, "short")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestUserService_Login(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	u := registerUser(t, svc)
	ctx := context.Background()

	token, err := svc.Login(ctx, u.Email, "correct horse battery")
	require.NoError(t, err)

	claims, err := auth.ParseToken(token, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "aldis", claims.UserName)
}

func TestUserService_Login_BadCredentials(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	u := registerUser(t, svc)
	ctx := context.Background()

	_, wrongPass := svc.Login(ctx, u.Email, "wrong password")
	_, unknownUser := svc.Login(ctx, "nobody@fleetdesk.example", "correct horse battery")

	require.ErrorIs(t, wrongPass, common.ErrorUnauthorized)
	require.ErrorIs(t, unknownUser, common.ErrorUnauthorized)
}

func TestUserService_RequestRecovery_SendsLink(t *testing.T) {
	svc, _, ml := newUserFixture(t)
	u := registerUser(t, svc)

	require.NoError(t, svc.RequestRecovery(context.Background(), u.Email))
	require.Equal(t, 1, ml.sent)
	assert.Equal(t, u.Email, ml.email)
	assert.Contains(t, ml.link, "http://localhost/reset?token=")
}

func TestUserService_RequestRecovery_UnknownEmailSilent(t *testing.T) {
	svc, _, ml := newUserFixture(t)
	registerUser(t, svc)

	require.NoError(t, svc.RequestRecovery(context.Background(), "nobody@fleetdesk.example"))
	assert.Zero(t, ml.sent)
}

func mailedToken(t *testing.T, ml *captureMailer) string {
	t.Helper()
	_, token, ok := strings.Cut(ml.link, "?token=")
	require.True(t, ok)
	return token
}

func TestUserService_ResetPassword(t *testing.T) {
	svc, _, ml := newUserFixture(t)
	u := registerUser(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.RequestRecovery(ctx, u.Email))
	token := mailedToken(t, ml)

	ok, err := svc.ValidateResetToken(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, svc.ResetPassword(ctx, token, "brand new password"))

	// Old password no longer works, new one does.
	_, err = svc.Login(ctx, u.Email, "correct horse battery")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = svc.Login(ctx, u.Email, "brand new password")
	require.NoError(t, err)

	// The token was single-use.
	ok, err = svc.ValidateResetToken(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
	err = svc.ResetPassword(ctx, token, "yet another password")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestUserService_ResetPassword_UnknownToken(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	err := svc.ResetPassword(context.Background(), "deadbeef", "brand new password")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestUserService_ResetPassword_DeletedAccount(t *testing.T) {
	svc, _, ml := newUserFixture(t)
	u := registerUser(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.RequestRecovery(ctx, u.Email))
	token := mailedToken(t, ml)

	_, err := svc.SoftDelete(ctx, "admin", u.ID)
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, token, "brand new password")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestUserService_ValidateResetToken_ReadOnly(t *testing.T) {
	svc, _, ml := newUserFixture(t)
	u := registerUser(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.RequestRecovery(ctx, u.Email))
	token := mailedToken(t, ml)

	for i := 0; i < 3; i++ {
		ok, err := svc.ValidateResetToken(ctx, token)
		require.NoError(t, err)
		require.True(t, ok, "probing must not consume the token")
	}
}

func TestUserService_OutstandingTokensCoexist(t *testing.T) {
	svc, _, ml := newUserFixture(t)
	u := registerUser(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.RequestRecovery(ctx, u.Email))
	first := mailedToken(t, ml)
	require.NoError(t, svc.RequestRecovery(ctx, u.Email))
	second := mailedToken(t, ml)
	require.NotEqual(t, first, second)

	// Consuming the second leaves the first valid.
	require.NoError(t, svc.ResetPassword(ctx, second, "brand new password"))
	ok, err := svc.ValidateResetToken(ctx, first)
	require.NoError(t, err)
	assert.True(t, ok)
}
