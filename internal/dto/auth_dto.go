package dto

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserDTO is the identity handed back to the UI; the password never leaves
// the store boundary.
type UserDTO struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}
