package domain

// Credentials is the payload of the login endpoint.
type Credentials struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Registration is the payload of the register endpoint.
type Registration struct {
	Username string `json:"username" form:"username" validate:"required,min=3"`
	Email    string `json:"email,omitempty" form:"email" validate:"omitempty,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}
