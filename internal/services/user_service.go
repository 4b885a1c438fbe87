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
	"golang.org/x/crypto/bcrypt"
)

var userColumns = sqlbuild.ColumnMap{
	"firstName": "first_name",
	"lastName":  "last_name",
	"isAdmin":   "is_admin",
}

const (
	userFields = `username, first_name, last_name, email, is_admin`

	sqlUserWithPassword = `SELECT username, password, first_name, last_name, email, is_admin FROM users WHERE username = $1`

	sqlInsertUser = `INSERT INTO users (username, password, first_name, last_name, email, is_admin) VALUES ($1, $2, $3, $4, $5, $6) RETURNING ` + userFields

	sqlSelectUsers = `SELECT ` + userFields + ` FROM users ORDER BY username`

	sqlGetUser = `SELECT ` + userFields + ` FROM users WHERE username = $1`

	sqlUserApplications = `SELECT job_id FROM applications WHERE username = $1 ORDER BY job_id`

	sqlDeleteUser = `DELETE FROM users WHERE username = $1 RETURNING username`

	sqlJobExists = `SELECT id FROM jobs WHERE id = $1`

	sqlUserExists = `SELECT username FROM users WHERE username = $1`

	sqlInsertApplication = `INSERT INTO applications (username, job_id) VALUES ($1, $2)`
)

type UserService struct {
	DB         database.Querier
	WorkFactor int
}

func NewUserService(db database.Querier, workFactor int) *UserService {
	return &UserService{DB: db, WorkFactor: workFactor}
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords fail the same way.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u := &models.User{}
	err := s.DB.QueryRowContext(ctx, sqlUserWithPassword, username).
		Scan(&u.Username, &u.Password, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.UnauthorizedMsg("Invalid username/password")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, apperr.Wrap(apperr.UnauthorizedMsg("Invalid username/password"), err)
	}
	u.Password = ""
	return u, nil
}

// Register creates a user with a hashed password.
func (s *UserService) Register(ctx context.Context, req *dtos.UserCreationRequest) (*models.User, error) {
	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := scanUser(s.DB.QueryRowContext(ctx, sqlInsertUser,
		req.Username, hash, req.FirstName, req.LastName, req.Email, req.IsAdmin))
	if err != nil {
		return nil, badRequestOn(err, pgUniqueViolation, "Duplicate username: "+req.Username)
	}
	logging.Ctx(ctx).Info().Str("username", user.Username).Bool("is_admin", user.IsAdmin).Msg("user registered")
	return user, nil
}

func (s *UserService) FindAll(ctx context.Context) ([]models.User, error) {
	rows, err := s.DB.QueryContext(ctx, sqlSelectUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Get returns the user and the ids of the jobs they applied to.
func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	user, err := scanUser(s.DB.QueryRowContext(ctx, sqlGetUser, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("No user: " + username)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, sqlUserApplications, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		user.Jobs = append(user.Jobs, id)
	}
	return user, rows.Err()
}

// Update applies a partial update. A password in updates is hashed before
// it is stored; updates itself is left untouched.
func (s *UserService) Update(ctx context.Context, username string, updates []sqlbuild.Assignment) (*models.User, error) {
	prepared := make([]sqlbuild.Assignment, len(updates))
	for i, u := range updates {
		if u.Field == "password" {
			plain, ok := u.Value.(string)
			if !ok {
				return nil, apperr.BadRequest("password must be a string")
			}
			hash, err := s.hash(plain)
			if err != nil {
				return nil, err
			}
			u.Value = hash
		}
		prepared[i] = u
	}

	set, err := sqlbuild.BuildSetFragment(prepared, userColumns)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE username = $%d RETURNING %s`,
		set.SQL, set.NextPlaceholder(), userFields)
	args := append(set.Args, username)

	user, err := scanUser(s.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("No user: " + username)
	}
	return user, err
}

func (s *UserService) Remove(ctx context.Context, username string) error {
	var deleted string
	err := s.DB.QueryRowContext(ctx, sqlDeleteUser, username).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("No user: " + username)
	}
	return err
}

// ApplyToJob records an application. Applying twice is a bad request.
func (s *UserService) ApplyToJob(ctx context.Context, username string, jobID int) error {
	var id int
	err := s.DB.QueryRowContext(ctx, sqlJobExists, jobID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("No job: " + strconv.Itoa(jobID))
	}
	if err != nil {
		return err
	}

	var name string
	err = s.DB.QueryRowContext(ctx, sqlUserExists, username).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("No username: " + username)
	}
	if err != nil {
		return err
	}

	if _, err := s.DB.ExecContext(ctx, sqlInsertApplication, username, jobID); err != nil {
		return badRequestOn(err, pgUniqueViolation, "Already applied to job: "+strconv.Itoa(jobID))
	}
	logging.Ctx(ctx).Info().Str("username", username).Int("job_id", jobID).Msg("application recorded")
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.WorkFactor)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin); err != nil {
		return nil, err
	}
	return u, nil
}
