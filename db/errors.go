package db

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

// Ошибки Storage, сравнивать через errors.Is.
var (
	// ErrJobNotFound: заказа с таким id нет. Некорректный id при чтении и
	// удалении даёт ту же ошибку.
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidID: id нельзя использовать для записи (upsert или _id
	// клиента не UUID).
	ErrInvalidID = errors.New("invalid identifier")

	// ErrDuplicateID: _id клиента уже занят.
	ErrDuplicateID = errors.New("identifier already exists")

	// ErrNoBidFilter: не задан email исполнителя или владельца заказа.
	ErrNoBidFilter = errors.New("userEmail or clientEmail is required")
)

// Низкоуровневые ошибки, оборачиваются вместе с ошибкой драйвера.
var (
	ErrBuildingSQLQuery   = errors.New("error building sql query")
	ErrExecutingQuery     = errors.New("error executing sql query")
	ErrExecutingStatement = errors.New("error executing sql statement")
	ErrEncodingDocument   = errors.New("error encoding document")
	ErrDecodingDocument   = errors.New("error decoding document")
)

func postgresError(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// classify переводит известные коды PostgreSQL в доменные ошибки.
func classify(err error) error {
	switch postgresError(err) {
	case pgerrcode.UniqueViolation:
		return ErrDuplicateID
	case pgerrcode.InvalidTextRepresentation:
		return ErrInvalidID
	default:
		return nil
	}
}
