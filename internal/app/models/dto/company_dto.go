package dto

// CreateCompanyRequest creates the caller's company profile
type CreateCompanyRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=255" example:"Acme GmbH"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Website     *string `json:"website" binding:"omitempty,url"`
	Industry    *string `json:"industry" binding:"omitempty,max=100"`
	Size        *string `json:"size" binding:"omitempty,oneof=1-10 11-50 51-200 201-500 501-1000 1000+"`
	Location    *string `json:"location" binding:"omitempty,max=255"`
}

// UpdateCompanyRequest updates the caller's company. Nil fields are left unchanged.
type UpdateCompanyRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Website     *string `json:"website" binding:"omitempty,url"`
	Industry    *string `json:"industry" binding:"omitempty,max=100"`
	Size        *string `json:"size" binding:"omitempty,oneof=1-10 11-50 51-200 201-500 501-1000 1000+"`
	Location    *string `json:"location" binding:"omitempty,max=255"`
}

// VerifyCompanyRequest sets the verification flag of a company
type VerifyCompanyRequest struct {
	IsVerified *bool `json:"isVerified" binding:"required"`
}
