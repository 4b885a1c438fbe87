package dtos

import (
	"fmt"
	"strconv"

	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

type JobCreationRequest struct {
	Title         string `json:"title" binding:"required,min=1"`
	CompanyHandle string `json:"companyHandle" binding:"required,min=1,max=25"`

	// Optional Fields
	Salary *int    `json:"salary" binding:"omitempty,min=0"`
	Equity *string `json:"equity" binding:"omitempty,numeric"`
}

// Validate checks what the binding tags cannot express.
func (r *JobCreationRequest) Validate() error {
	return validateEquity(r.Equity)
}

// JobUpdateRequest is a partial update; the company and id of a job never
// change.
type JobUpdateRequest struct {
	Title  *string `json:"title" binding:"omitempty,min=1"`
	Salary *int    `json:"salary" binding:"omitempty,min=0"`
	Equity *string `json:"equity" binding:"omitempty,numeric"`
}

func (r *JobUpdateRequest) Validate() error {
	return validateEquity(r.Equity)
}

// Assignments lists the fields present in the request, in declaration order.
func (r *JobUpdateRequest) Assignments() []sqlbuild.Assignment {
	var out []sqlbuild.Assignment
	if r.Title != nil {
		out = append(out, sqlbuild.Assignment{Field: "title", Value: *r.Title})
	}
	if r.Salary != nil {
		out = append(out, sqlbuild.Assignment{Field: "salary", Value: *r.Salary})
	}
	if r.Equity != nil {
		out = append(out, sqlbuild.Assignment{Field: "equity", Value: *r.Equity})
	}
	return out
}

type JobExtractionRequest struct {
	RawText       string `json:"rawText" binding:"required"`
	CompanyHandle string `json:"companyHandle" binding:"omitempty,max=25"`
}

// JobDraft is a job pulled out of free text; an admin reviews it before
// posting it with POST /jobs.
type JobDraft struct {
	Title         string  `json:"title"`
	Salary        *int    `json:"salary"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `json:"companyHandle,omitempty"`
}

func validateEquity(equity *string) error {
	if equity == nil {
		return nil
	}
	v, err := strconv.ParseFloat(*equity, 64)
	if err != nil || v < 0 || v > 1 {
		return fmt.Errorf("equity must be a number between 0 and 1.0")
	}
	return nil
}
