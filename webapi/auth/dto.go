package auth

// LoginInput carries login credentials. Identity is a handle or email.
type LoginInput struct {
	Identity string `json:"identity" validate:"required"`
	Password string `json:"password" validate:"required"`
}
