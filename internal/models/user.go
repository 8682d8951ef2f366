package models

// User is a registered account. ID is the store-assigned identifier rendered as a
// string (ObjectID hex for MongoDB, UUID for PostgreSQL).
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"` // never serialize
}

// RegisterRequest is the JSON body for POST /register.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// LoginRequest is the JSON body for POST /login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse is returned by POST /register.
type RegisterResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

// LoginResponse is returned by POST /login. The "nome" key is part of the public
// contract consumed by existing clients.
type LoginResponse struct {
	Token string `json:"token"`
	Nome  string `json:"nome"`
}
