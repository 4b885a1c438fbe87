package dtos

import "github.com/justsurfingit/jobly/internal/sqlbuild"

type TokenRequest struct {
	Username string `json:"username" binding:"required,min=1,max=25"`
	Password string `json:"password" binding:"required,min=1"`
}

// RegisterRequest is self sign-up; it can never create an admin.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=1,max=25"`
	Password  string `json:"password" binding:"required,min=5,max=20"`
	FirstName string `json:"firstName" binding:"required,min=1,max=30"`
	LastName  string `json:"lastName" binding:"required,min=1,max=30"`
	Email     string `json:"email" binding:"required,email,min=6,max=60"`
}

// UserCreationRequest is the admin-only POST /users body.
type UserCreationRequest struct {
	Username  string `json:"username" binding:"required,min=1,max=25"`
	Password  string `json:"password" binding:"required,min=5,max=20"`
	FirstName string `json:"firstName" binding:"required,min=1,max=30"`
	LastName  string `json:"lastName" binding:"required,min=1,max=30"`
	Email     string `json:"email" binding:"required,email,min=6,max=60"`
	IsAdmin   bool   `json:"isAdmin"`
}

func (r *RegisterRequest) AsCreation() UserCreationRequest {
	return UserCreationRequest{
		Username:  r.Username,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
}

type UserUpdateRequest struct {
	Password  *string `json:"password" binding:"omitempty,min=5,max=20"`
	FirstName *string `json:"firstName" binding:"omitempty,min=1,max=30"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1,max=30"`
	Email     *string `json:"email" binding:"omitempty,email,min=6,max=60"`
}

// Assignments lists the fields present in the request, in declaration order.
// The password is still plain text here; UserService hashes it.
func (r *UserUpdateRequest) Assignments() []sqlbuild.Assignment {
	var out []sqlbuild.Assignment
	if r.Password != nil {
		out = append(out, sqlbuild.Assignment{Field: "password", Value: *r.Password})
	}
	if r.FirstName != nil {
		out = append(out, sqlbuild.Assignment{Field: "firstName", Value: *r.FirstName})
	}
	if r.LastName != nil {
		out = append(out, sqlbuild.Assignment{Field: "lastName", Value: *r.LastName})
	}
	if r.Email != nil {
		out = append(out, sqlbuild.Assignment{Field: "email", Value: *r.Email})
	}
	return out
}
