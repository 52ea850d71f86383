package types

// UserResponse is the client-facing shape of a user; the password
// hash never leaves the handlers.
type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
