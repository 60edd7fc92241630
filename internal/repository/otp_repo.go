package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/sahlct/E-Portal-server/internal/model"
)

// OTPRepository is the expiring key-value store behind the password-reset
// flow: one live code per email, TTL-based expiry, single use.
type OTPRepository interface {
	Upsert(email, otpHash string, expiresAt time.Time) error
	FindValid(email string) (*model.PasswordOTP, error)
	MarkConsumed(otp *model.PasswordOTP) error
	PurgeExpired() error
}

type otpRepo struct {
	db *gorm.DB
}

func NewOTPRepo(db *gorm.DB) OTPRepository {
	return &otpRepo{db}
}

// Upsert replaces any previous code for the email so only the most recently
// issued one can be redeemed.
func (r *otpRepo) Upsert(email, otpHash string, expiresAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.PasswordOTP{}, "email = ?", email).Error; err != nil {
			return err
		}
		return tx.Create(&model.PasswordOTP{
			Email:     email,
			OTPHash:   otpHash,
			ExpiresAt: expiresAt,
		}).Error
	})
}

func (r *otpRepo) FindValid(email string) (*model.PasswordOTP, error) {
	var otp model.PasswordOTP
	err := r.db.Where("email = ? AND consumed = ? AND expires_at > ?", email, false, time.Now()).
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepo) MarkConsumed(otp *model.PasswordOTP) error {
	return r.db.Model(otp).Update("consumed", true).Error
}

func (r *otpRepo) PurgeExpired() error {
	return r.db.Delete(&model.PasswordOTP{}, "expires_at <= ?", time.Now()).Error
}
