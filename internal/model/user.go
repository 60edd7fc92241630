package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an admin-panel account.
type User struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	Status   int    `gorm:"default:1" json:"status"`
}

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword verifies the supplied password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// PasswordOTP is one row of the expiring OTP store used by the password-reset
// flow. Only the bcrypt hash of the code is stored; rows expire by ExpiresAt
// and are single-use via Consumed. Keeping these in the database (instead of
// a process-local map) keeps multi-instance deployments correct.
type PasswordOTP struct {
	BaseModel
	Email     string    `gorm:"type:varchar(255);not null;index" json:"email"`
	OTPHash   string    `gorm:"type:varchar(255);not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Consumed  bool      `gorm:"default:false" json:"consumed"`
}
