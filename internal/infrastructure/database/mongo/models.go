package mongo

import (
	"people-graphql-api/internal/domain/otp"
	"people-graphql-api/internal/domain/user"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type userDocument struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	Name           string        `bson:"name"`
	Email          string        `bson:"email"`
	PasswordHashed string        `bson:"password_hashed"`
	Avatar         string        `bson:"avatar"`
	Role           string        `bson:"role"`
	DialCode       string        `bson:"dial_code"`
	Phone          *string       `bson:"phone,omitempty"`
	CreatedAt      time.Time     `bson:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at"`
}

// otpDocument is keyed by email so a second insert for the same address collides.
type otpDocument struct {
	Email     string    `bson:"_id"`
	Code      string    `bson:"code"`
	Medium    string    `bson:"medium"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

func toUserDocument(u *user.User) (*userDocument, error) {
	id, err := bson.ObjectIDFromHex(u.ID)
	if err != nil {
		return nil, user.ErrInvalidUserID
	}
	return &userDocument{
		ID:             id,
		Name:           u.Name,
		Email:          u.Email,
		PasswordHashed: u.PasswordHashed,
		Avatar:         u.Avatar,
		Role:           string(u.Role),
		DialCode:       u.DialCode,
		Phone:          u.Phone,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}, nil
}

func (d *userDocument) toEntity() *user.User {
	return &user.User{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Email:          d.Email,
		PasswordHashed: d.PasswordHashed,
		Avatar:         d.Avatar,
		Role:           user.Role(d.Role),
		DialCode:       d.DialCode,
		Phone:          d.Phone,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func toOTPDocument(o *otp.OTP) *otpDocument {
	return &otpDocument{
		Email:     o.Email,
		Code:      o.Code,
		Medium:    string(o.Medium),
		CreatedAt: o.CreatedAt,
		ExpiresAt: o.ExpiresAt,
	}
}

func (d *otpDocument) toEntity() *otp.OTP {
	return &otp.OTP{
		Email:     d.Email,
		Code:      d.Code,
		Medium:    otp.Medium(d.Medium),
		CreatedAt: d.CreatedAt,
		ExpiresAt: d.ExpiresAt,
	}
}
