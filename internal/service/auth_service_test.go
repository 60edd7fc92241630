package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/repository"
	"github.com/sahlct/E-Portal-server/pkg/apperr"
)

// fakeMailer captures outgoing mail instead of talking SMTP.
type fakeMailer struct {
	To      string
	Subject string
	Body    string
	Sent    int
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.To, m.Subject, m.Body = to, subject, body
	m.Sent++
	return nil
}

var otpPattern = regexp.MustCompile(`<b>(\d{6})</b>`)

func (m *fakeMailer) lastCode(t *testing.T) string {
	t.Helper()
	match := otpPattern.FindStringSubmatch(m.Body)
	require.Len(t, match, 2, "mail body carries no reset code: %q", m.Body)
	return match[1]
}

type authFixture struct {
	db   *gorm.DB
	auth AuthService
	otps repository.OTPRepository
	mail *fakeMailer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := newTestDB(t)
	mail := &fakeMailer{}
	users := repository.NewUserRepo(db)
	otps := repository.NewOTPRepo(db)
	return &authFixture{
		db:   db,
		auth: NewAuthService(users, otps, mail, zap.NewNop()),
		otps: otps,
		mail: mail,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newAuthFixture(t).auth

	resp, err := auth.Register("Admin", "admin@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin@example.com", resp.User.Email)

	// duplicate email
	_, err = auth.Register("Admin Again", "admin@example.com", "secret123")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	login, err := auth.Login("admin@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)

	_, err = auth.Login("admin@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	auth, mail := f.auth, f.mail

	_, err := auth.Register("Admin", "admin@example.com", "original1")
	require.NoError(t, err)

	require.NoError(t, auth.ForgotPassword("admin@example.com"))
	require.Equal(t, 1, mail.Sent)
	code := mail.lastCode(t)

	// wrong code does not consume the OTP
	err = auth.ResetPassword("admin@example.com", "000000", "newpass1")
	if code != "000000" {
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}

	require.NoError(t, auth.ResetPassword("admin@example.com", code, "newpass1"))

	_, err = auth.Login("admin@example.com", "newpass1")
	require.NoError(t, err)
	_, err = auth.Login("admin@example.com", "original1")
	require.Error(t, err)

	// the code is single-use
	err = auth.ResetPassword("admin@example.com", code, "another1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	auth, mail := f.auth, f.mail

	err := auth.ForgotPassword("nobody@example.com")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Zero(t, mail.Sent)
}

func TestResetPassword_ExpiredOTP(t *testing.T) {
	f := newAuthFixture(t)
	auth, otps, mail := f.auth, f.otps, f.mail

	_, err := auth.Register("Admin", "admin@example.com", "original1")
	require.NoError(t, err)
	require.NoError(t, auth.ForgotPassword("admin@example.com"))
	code := mail.lastCode(t)

	// age the stored row past its TTL
	stored, err := otps.FindValid("admin@example.com")
	require.NoError(t, err)
	stored.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, f.db.Save(stored).Error)

	err = auth.ResetPassword("admin@example.com", code, "newpass1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestResetPassword_TooShort(t *testing.T) {
	auth := newAuthFixture(t).auth

	err := auth.ResetPassword("admin@example.com", "123456", "abc")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestPurgeExpired(t *testing.T) {
	otps := newAuthFixture(t).otps

	require.NoError(t, otps.Upsert("a@example.com", "hash", time.Now().Add(-time.Hour)))
	require.NoError(t, otps.Upsert("b@example.com", "hash", time.Now().Add(time.Hour)))

	require.NoError(t, otps.PurgeExpired())

	_, err := otps.FindValid("a@example.com")
	require.Error(t, err)
	_, err = otps.FindValid("b@example.com")
	require.NoError(t, err)
}
