package dtos

import (
	"fmt"

	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

type CompanyCreationRequest struct {
	Handle      string `json:"handle" binding:"required,min=1,max=25"`
	Name        string `json:"name" binding:"required,min=1"`
	Description string `json:"description" binding:"required"`

	// Optional Fields
	NumEmployees *int    `json:"numEmployees" binding:"omitempty,min=0"`
	LogoURL      *string `json:"logoUrl" binding:"omitempty,url"`
}

type CompanyUpdateRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1"`
	Description  *string `json:"description"`
	NumEmployees *int    `json:"numEmployees" binding:"omitempty,min=0"`
	LogoURL      *string `json:"logoUrl" binding:"omitempty,url"`
}

// Assignments lists the fields present in the request, in declaration order,
// keyed by their JSON names.
func (r *CompanyUpdateRequest) Assignments() []sqlbuild.Assignment {
	var out []sqlbuild.Assignment
	if r.Name != nil {
		out = append(out, sqlbuild.Assignment{Field: "name", Value: *r.Name})
	}
	if r.Description != nil {
		out = append(out, sqlbuild.Assignment{Field: "description", Value: *r.Description})
	}
	if r.NumEmployees != nil {
		out = append(out, sqlbuild.Assignment{Field: "numEmployees", Value: *r.NumEmployees})
	}
	if r.LogoURL != nil {
		out = append(out, sqlbuild.Assignment{Field: "logoUrl", Value: *r.LogoURL})
	}
	return out
}

// CompanySearchKeys are the only query parameters GET /companies accepts.
var CompanySearchKeys = map[string]bool{
	"nameLike":     true,
	"minEmployees": true,
	"maxEmployees": true,
}

type CompanySearchRequest struct {
	NameLike     *string `form:"nameLike" binding:"omitempty,min=1"`
	MinEmployees *int    `form:"minEmployees" binding:"omitempty,min=0"`
	MaxEmployees *int    `form:"maxEmployees" binding:"omitempty,min=0"`
}

// Validate rejects an empty employee range.
func (r *CompanySearchRequest) Validate() error {
	if r.MinEmployees != nil && r.MaxEmployees != nil && *r.MinEmployees > *r.MaxEmployees {
		return fmt.Errorf("minEmployees cannot be greater than maxEmployees")
	}
	return nil
}

func (r *CompanySearchRequest) Filter() sqlbuild.CompanyFilter {
	return sqlbuild.CompanyFilter{
		NameLike:     r.NameLike,
		MinEmployees: r.MinEmployees,
		MaxEmployees: r.MaxEmployees,
	}
}
