package model

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email                  string  `gorm:"column:email;unique;not null"`
	Username               string  `gorm:"column:username;unique;not null"`
	Password               string  `gorm:"column:password;not null" json:"-"`
	Role                   string  `gorm:"column:role;default:user;not null"`
	IsActive               bool    `gorm:"column:is_active;default:true;not null"`
	IsEmailVerified        bool    `gorm:"column:is_email_verified;default:false;not null"`
	EmailVerificationToken *string `gorm:"column:email_verification_token;default:null;index:idx_users_verification_token,where:email_verification_token IS NOT NULL"`

	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
	Bio       string `gorm:"column:bio"`

	// Active refresh tokens, ordered by issuance. Rows are removed on
	// logout and on refresh rotation.
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	// Self-referential follow graph. A single edge row in user_follows
	// keeps both directions consistent.
	Followers []*User `gorm:"many2many:user_follows;joinForeignKey:following_id;joinReferences:follower_id"`
	Following []*User `gorm:"many2many:user_follows;joinForeignKey:follower_id;joinReferences:following_id"`
}

// RefreshToken is one entry of a user's active-refresh-token set. Token
// values are signed JWTs and unique across all users, which lets logout
// find the owning user by token value alone.
type RefreshToken struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"column:user_id;index;not null"`
	Token     string `gorm:"column:token;unique;not null"`
	CreatedAt int64  `gorm:"column:created_at;autoCreateTime"`
}
