package dto

// RegisterRequest represents a registration request
type RegisterRequest struct {
	UserName  string `json:"user_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Telephone string `json:"telephone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token in the body
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateStatusRequest changes an account status (admin)
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateRoleRequest changes an account role (admin)
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ProductListQuery is bound from the listing query string. Page and limit
// stay strings so unparsable values can fall back to defaults.
type ProductListQuery struct {
	Page       string `form:"page"`
	Limit      string `form:"limit"`
	Category   string `form:"category"`
	Search     string `form:"search"`
	PriceRange string `form:"priceRange"`
	SortBy     string `form:"sortBy"`
}
