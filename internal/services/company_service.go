package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/justsurfingit/jobly/internal/apperr"
	"github.com/justsurfingit/jobly/internal/database"
	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/logging"
	"github.com/justsurfingit/jobly/internal/models"
	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

// companyColumns maps the JSON field names of a company update to columns.
var companyColumns = sqlbuild.ColumnMap{
	"numEmployees": "num_employees",
	"logoUrl":      "logo_url",
}

const (
	companyFields = `handle, name, description, num_employees, logo_url`

	sqlInsertCompany = `INSERT INTO companies (handle, name, description, num_employees, logo_url) VALUES ($1, $2, $3, $4, $5) RETURNING ` + companyFields

	sqlSelectCompanies = `SELECT ` + companyFields + ` FROM companies`

	sqlGetCompany = `SELECT ` + companyFields + ` FROM companies WHERE handle = $1`

	sqlCompanyJobs = `SELECT ` + jobFields + ` FROM jobs WHERE company_handle = $1 ORDER BY id`

	sqlDeleteCompany = `DELETE FROM companies WHERE handle = $1 RETURNING handle`
)

type CompanyService struct {
	DB database.Querier
}

func NewCompanyService(db database.Querier) *CompanyService {
	return &CompanyService{DB: db}
}

// Create adds a company. A taken handle or name is a bad request.
func (s *CompanyService) Create(ctx context.Context, req *dtos.CompanyCreationRequest) (*models.Company, error) {
	row := s.DB.QueryRowContext(ctx, sqlInsertCompany,
		req.Handle, req.Name, req.Description, req.NumEmployees, req.LogoURL)

	company, err := scanCompany(row)
	if err != nil {
		return nil, badRequestOn(err, pgUniqueViolation, "Duplicate company: "+req.Handle)
	}
	logging.Ctx(ctx).Info().Str("handle", company.Handle).Msg("company created")
	return company, nil
}

// FindAll lists companies matching filter, ordered by name. An empty filter
// lists every company.
func (s *CompanyService) FindAll(ctx context.Context, filter sqlbuild.CompanyFilter) ([]models.Company, error) {
	where := sqlbuild.BuildFilterFragment(filter)
	query := sqlSelectCompanies + where.WhereClause() + ` ORDER BY name`

	logging.Ctx(ctx).Debug().Str("where", where.SQL).Int("args", len(where.Args)).Msg("company search")

	rows, err := s.DB.QueryContext(ctx, query, where.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	return companies, rows.Err()
}

// Get returns the company with its jobs.
func (s *CompanyService) Get(ctx context.Context, handle string) (*models.Company, error) {
	company, err := scanCompany(s.DB.QueryRowContext(ctx, sqlGetCompany, handle))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("No company: " + handle)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, sqlCompanyJobs, handle)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	company.Jobs = []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		company.Jobs = append(company.Jobs, *j)
	}
	return company, rows.Err()
}

// Update applies a partial update. The handle itself is not updatable.
func (s *CompanyService) Update(ctx context.Context, handle string, updates []sqlbuild.Assignment) (*models.Company, error) {
	set, err := sqlbuild.BuildSetFragment(updates, companyColumns)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE companies SET %s WHERE handle = $%d RETURNING %s`,
		set.SQL, set.NextPlaceholder(), companyFields)
	args := append(set.Args, handle)

	company, err := scanCompany(s.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("No company: " + handle)
	}
	if err != nil {
		return nil, badRequestOn(err, pgUniqueViolation, "Duplicate company name")
	}
	return company, nil
}

// Remove deletes the company and, through the foreign key, its jobs.
func (s *CompanyService) Remove(ctx context.Context, handle string) error {
	var deleted string
	err := s.DB.QueryRowContext(ctx, sqlDeleteCompany, handle).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("No company: " + handle)
	}
	if err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("handle", handle).Msg("company removed")
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCompany(row scanner) (*models.Company, error) {
	c := &models.Company{}
	if err := row.Scan(&c.Handle, &c.Name, &c.Description, &c.NumEmployees, &c.LogoURL); err != nil {
		return nil, err
	}
	return c, nil
}
