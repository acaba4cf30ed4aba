package repository

import (
	"errors"

	repo "shop/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// postgresのSQLSTATE
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// translate はドライバのエラーをrepositoryのエラーに寄せる
func translate(err error) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return repo.ErrDuplicate
		case pgForeignKeyViolation:
			return repo.ErrReferenced
		}
	}
	return err
}

func offset(page int, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
