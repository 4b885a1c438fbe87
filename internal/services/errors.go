package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/justsurfingit/jobly/internal/apperr"
)

// Postgres SQLSTATE codes the services translate for clients.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// badRequestOn returns a bad request carrying err when err is a constraint
// violation of the given code, and err unchanged otherwise.
func badRequestOn(err error, code, msg string) error {
	if pgCode(err) == code {
		return apperr.Wrap(apperr.BadRequest(msg), err)
	}
	return err
}
