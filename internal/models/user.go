package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User roles. "owner" owns a team, "admin" may use the /nexus console.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

type User struct {
	ID                 int64      `db:"id" json:"id"`
	Email              string     `db:"email" json:"email"`
	PasswordHash       string     `db:"password_hash" json:"-"`
	Name               string     `db:"name" json:"name"`
	Role               string     `db:"role" json:"role"`
	EmailVerified      bool       `db:"email_verified" json:"email_verified"`
	IsActive           bool       `db:"is_active" json:"is_active"`
	TeamID             *int64     `db:"team_id" json:"team_id,omitempty"`
	InstagramAccountID *string    `db:"instagram_account_id" json:"instagram_account_id,omitempty"`
	LastLoginAt        *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

type Team struct {
	ID               int64     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	OwnerID          int64     `db:"owner_id" json:"owner_id"`
	Plan             string    `db:"plan" json:"plan"`
	StripeCustomerID *string   `db:"stripe_customer_id" json:"-"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

const (
	TokenKindPasswordReset = "password_reset"
	TokenKindEmailVerify   = "email_verify"
)

// UserToken is a one-shot credential for password reset or email verification.
type UserToken struct {
	ID        int64      `db:"id"`
	UserID    int64      `db:"user_id"`
	Token     string     `db:"token"`
	Kind      string     `db:"kind"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}

// Claims defines the structure of the JWT claims. Subject carries the user id.
type Claims struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	TeamID *int64 `json:"teamId,omitempty"`
	jwt.RegisteredClaims
}
