package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID              int64      `json:"id" db:"id" example:"1"`
	Email           string     `json:"email" db:"email" example:"jane@example.com"`
	Password        string     `json:"-" db:"password_hash"`
	FirstName       string     `json:"firstName" db:"first_name" example:"Jane"`
	LastName        string     `json:"lastName" db:"last_name" example:"Doe"`
	Role            RoleType   `json:"role" db:"role" example:"USER"`
	IsVerified      bool       `json:"isVerified" db:"is_verified" example:"true"`
	IsActive        bool       `json:"isActive" db:"is_active" example:"true"`
	OTPCode         *string    `json:"-" db:"otp_code"`
	OTPExpiresAt    *time.Time `json:"-" db:"otp_expires_at"`
	Headline        *string    `json:"headline,omitempty" db:"headline" example:"Backend engineer"`
	Bio             *string    `json:"bio,omitempty" db:"bio"`
	Skills          []string   `json:"skills" db:"skills" example:"go,postgres"`
	ExperienceYears int        `json:"experienceYears" db:"experience_years" example:"4"`
	Location        *string    `json:"location,omitempty" db:"location" example:"Berlin"`
	AvatarURL       *string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	ResumeURL       *string    `json:"resumeUrl,omitempty" db:"resume_url"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserSummary is the public projection of a user embedded in other resources.
type UserSummary struct {
	ID        int64    `json:"id" db:"id"`
	FirstName string   `json:"firstName" db:"first_name"`
	LastName  string   `json:"lastName" db:"last_name"`
	AvatarURL *string  `json:"avatarUrl,omitempty" db:"avatar_url"`
	Role      RoleType `json:"role" db:"role"`
}

// RefreshToken is a persisted opaque refresh token
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	Token     string    `json:"token" db:"token"`
	UserID    int64     `json:"userId" db:"user_id"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// IsExpired reports whether the token expired at the given instant.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// UserFilter narrows the admin user listing
type UserFilter struct {
	Role   RoleType
	Search string
	Offset int
	Limit  int
}
