package models

import "time"

// OTPModel represents the database model for OTP. Email is the primary key so
// the table holds at most one code per address.
type OTPModel struct {
	Email     string    `gorm:"type:varchar(255);primaryKey"`
	Code      string    `gorm:"type:varchar(16);not null"`
	Medium    string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (OTPModel) TableName() string {
	return "otps"
}
