package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/justsurfingit/jobly/internal/apperr"
	"github.com/justsurfingit/jobly/internal/database"
	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/logging"
	"github.com/justsurfingit/jobly/internal/models"
	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

const (
	jobFields = `id, title, salary, equity, company_handle`

	sqlInsertJob = `INSERT INTO jobs (title, salary, equity, company_handle) VALUES ($1, $2, $3, $4) RETURNING ` + jobFields

	sqlSelectJobs = `SELECT ` + jobFields + ` FROM jobs ORDER BY title, id`

	sqlGetJob = `SELECT ` + jobFields + ` FROM jobs WHERE id = $1`

	sqlDeleteJob = `DELETE FROM jobs WHERE id = $1 RETURNING id`
)

type JobService struct {
	DB database.Querier
}

func NewJobService(db database.Querier) *JobService {
	return &JobService{
		DB: db,
	}
}

// CreateJob posts a job for an existing company.
func (s *JobService) CreateJob(ctx context.Context, req *dtos.JobCreationRequest) (*models.Job, error) {
	row := s.DB.QueryRowContext(ctx, sqlInsertJob, req.Title, req.Salary, req.Equity, req.CompanyHandle)
	job, err := scanJob(row)
	if err != nil {
		return nil, badRequestOn(err, pgForeignKeyViolation, "No company: "+req.CompanyHandle)
	}
	logging.Ctx(ctx).Info().Int("job_id", job.ID).Str("company", job.CompanyHandle).Msg("job created")
	return job, nil
}

func (s *JobService) FindAll(ctx context.Context) ([]models.Job, error) {
	rows, err := s.DB.QueryContext(ctx, sqlSelectJobs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func (s *JobService) Get(ctx context.Context, id int) (*models.Job, error) {
	job, err := scanJob(s.DB.QueryRowContext(ctx, sqlGetJob, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("No job: " + strconv.Itoa(id))
	}
	return job, err
}

// Update applies a partial update; field names equal column names for jobs.
func (s *JobService) Update(ctx context.Context, id int, updates []sqlbuild.Assignment) (*models.Job, error) {
	set, err := sqlbuild.BuildSetFragment(updates, nil)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE jobs SET %s WHERE id = $%d RETURNING %s`,
		set.SQL, set.NextPlaceholder(), jobFields)
	args := append(set.Args, id)

	job, err := scanJob(s.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("No job: " + strconv.Itoa(id))
	}
	return job, err
}

func (s *JobService) Remove(ctx context.Context, id int) error {
	var deleted int
	err := s.DB.QueryRowContext(ctx, sqlDeleteJob, id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("No job: " + strconv.Itoa(id))
	}
	return err
}

func scanJob(row scanner) (*models.Job, error) {
	j := &models.Job{}
	if err := row.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle); err != nil {
		return nil, err
	}
	return j, nil
}
