package models

import "time"

// Company is the employer profile owned by a COMPANY user
type Company struct {
	ID             int64     `json:"id" db:"id"`
	OwnerID        int64     `json:"ownerId" db:"owner_id"`
	Name           string    `json:"name" db:"name"`
	Description    *string   `json:"description,omitempty" db:"description"`
	Website        *string   `json:"website,omitempty" db:"website"`
	Industry       *string   `json:"industry,omitempty" db:"industry"`
	Size           *string   `json:"size,omitempty" db:"size"`
	Location       *string   `json:"location,omitempty" db:"location"`
	LogoURL        *string   `json:"logoUrl,omitempty" db:"logo_url"`
	IsVerified     bool      `json:"isVerified" db:"is_verified"`
	ActiveJobCount int       `json:"activeJobCount" db:"active_job_count"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// CompanyFilter narrows company listings
type CompanyFilter struct {
	Search   string
	Verified *bool
	Offset   int
	Limit    int
}
