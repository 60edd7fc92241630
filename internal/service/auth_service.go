package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
	"github.com/sahlct/E-Portal-server/internal/repository"
	"github.com/sahlct/E-Portal-server/pkg/apperr"
	"github.com/sahlct/E-Portal-server/pkg/jwt"
	"github.com/sahlct/E-Portal-server/pkg/mailer"
)

// otpTTL is how long a password-reset code stays redeemable.
const otpTTL = 10 * time.Minute

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type AuthService interface {
	Register(name, email, password string) (*LoginResponse, error)
	Login(email, password string) (*LoginResponse, error)
	ForgotPassword(email string) error
	ResetPassword(email, otp, newPassword string) error
}

type authService struct {
	users repository.UserRepository
	otps  repository.OTPRepository
	mail  mailer.Mailer
	log   *zap.Logger
}

func NewAuthService(users repository.UserRepository, otps repository.OTPRepository, mail mailer.Mailer, log *zap.Logger) AuthService {
	return &authService{users: users, otps: otps, mail: mail, log: log}
}

func (s *authService) Register(name, email, password string) (*LoginResponse, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}

	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, apperr.Conflict("email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unexpected(err)
	}

	user := &model.User{Name: name, Email: email, Status: model.StatusActive}
	if err := validateModel(user); err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, apperr.Unexpected(err)
	}
	if err := s.users.Create(user); err != nil {
		return nil, translateStoreErr(err)
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return &LoginResponse{Token: token, User: user}, nil
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, apperr.Validation("invalid credentials")
	}
	if !user.CheckPassword(password) {
		return nil, apperr.Validation("invalid credentials")
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return &LoginResponse{Token: token, User: user}, nil
}

// ForgotPassword issues a fresh 6-digit code, stores only its hash with a
// TTL, and mails the code. Unknown emails return NotFound so the admin panel
// can say so; this is an internal tool, not a public signup flow.
func (s *authService) ForgotPassword(email string) error {
	if _, err := s.users.FindByEmail(email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("no account with that email")
		}
		return apperr.Unexpected(err)
	}

	code, err := generateOTP()
	if err != nil {
		return apperr.Unexpected(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Unexpected(err)
	}
	if err := s.otps.Upsert(email, string(hash), time.Now().Add(otpTTL)); err != nil {
		return translateStoreErr(err)
	}

	body := fmt.Sprintf("<p>Your password reset code is <b>%s</b>. It expires in %d minutes.</p>",
		code, int(otpTTL.Minutes()))
	if err := s.mail.Send(email, "Password reset code", body); err != nil {
		s.log.Error("failed to send OTP mail", zap.String("email", email), zap.Error(err))
		return apperr.Unexpected(err)
	}
	return nil
}

func (s *authService) ResetPassword(email, otp, newPassword string) error {
	if len(newPassword) < 6 {
		return apperr.Validation("password must be at least 6 characters")
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("no account with that email")
		}
		return apperr.Unexpected(err)
	}

	stored, err := s.otps.FindValid(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Validation("invalid or expired OTP")
		}
		return apperr.Unexpected(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.OTPHash), []byte(otp)) != nil {
		return apperr.Validation("invalid or expired OTP")
	}

	if err := s.otps.MarkConsumed(stored); err != nil {
		return translateStoreErr(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Unexpected(err)
	}
	if err := s.users.UpdatePassword(user.ID, string(hash)); err != nil {
		return translateStoreErr(err)
	}
	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
