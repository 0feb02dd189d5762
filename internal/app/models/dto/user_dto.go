package dto

// UpdateProfileRequest updates the caller's profile. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName       *string   `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName        *string   `json:"lastName" binding:"omitempty,min=1,max=100"`
	Headline        *string   `json:"headline" binding:"omitempty,max=255"`
	Bio             *string   `json:"bio" binding:"omitempty,max=5000"`
	Skills          *[]string `json:"skills" binding:"omitempty,max=50,dive,min=1,max=50"`
	ExperienceYears *int      `json:"experienceYears" binding:"omitempty,min=0,max=80"`
	Location        *string   `json:"location" binding:"omitempty,max=255"`
}

// UpdateUserStatusRequest activates or deactivates an account
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
