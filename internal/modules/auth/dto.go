package auth

import "time"

// SetupDTO creates the first admin account. The endpoint locks itself once
// any user exists.
type SetupDTO struct {
	Username string `json:"username" binding:"required,min=3,max=40"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Mail     string `json:"mail" binding:"required,email"`
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token   string       `json:"token"`
	Expires time.Time    `json:"expires"`
	User    userResponse `json:"user"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Mail     string `json:"mail"`
	Role     string `json:"role"`
}
