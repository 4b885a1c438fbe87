package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobly/internal/apperr"
	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/models"
	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

// CompanyStore is the part of services.CompanyService the handlers use.
type CompanyStore interface {
	Create(ctx context.Context, req *dtos.CompanyCreationRequest) (*models.Company, error)
	FindAll(ctx context.Context, filter sqlbuild.CompanyFilter) ([]models.Company, error)
	Get(ctx context.Context, handle string) (*models.Company, error)
	Update(ctx context.Context, handle string, updates []sqlbuild.Assignment) (*models.Company, error)
	Remove(ctx context.Context, handle string) error
}

type CompanyHandler struct {
	Companies CompanyStore
}

func NewCompanyHandler(companies CompanyStore) *CompanyHandler {
	return &CompanyHandler{Companies: companies}
}

func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req dtos.CompanyCreationRequest
	if !bindJSON(c, &req) {
		return
	}
	company, err := h.Companies.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"company": company})
}

// ListCompanies is GET /companies, optionally filtered by nameLike,
// minEmployees and maxEmployees.
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	var unknown []string
	for key := range c.Request.URL.Query() {
		if !dtos.CompanySearchKeys[key] {
			unknown = append(unknown, fmt.Sprintf("instance is not allowed to have the additional property %q", key))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		fail(c, apperr.Invalid(unknown))
		return
	}

	var req dtos.CompanySearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		fail(c, dtos.BindError(err))
		return
	}
	if err := req.Validate(); err != nil {
		fail(c, apperr.BadRequest(err.Error()))
		return
	}

	companies, err := h.Companies.FindAll(c.Request.Context(), req.Filter())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (h *CompanyHandler) GetCompany(c *gin.Context) {
	company, err := h.Companies.Get(c.Request.Context(), c.Param("handle"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	var req dtos.CompanyUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	company, err := h.Companies.Update(c.Request.Context(), c.Param("handle"), req.Assignments())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	handle := c.Param("handle")
	if err := h.Companies.Remove(c.Request.Context(), handle); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": handle})
}
