package db

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"talenthub/internal/logger"
	"talenthub/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

// Storage хранит заказы и отклики как JSON-документы в PostgreSQL.
type Storage struct {
	jobs collection
	bids collection
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		jobs: collection{db: db, table: "jobs"},
		bids: collection{db: db, table: "bids"},
	}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// documentRow: строка любой из двух таблиц.
type documentRow struct {
	ID        string         `db:"id"`
	Doc       types.JSONText `db:"doc"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r documentRow) document() (models.Document, error) {
	doc := models.Document{}
	dec := json.NewDecoder(bytes.NewReader(r.Doc))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingDocument, err)
	}
	return doc, nil
}

type setResult struct {
	Inserted bool `db:"inserted"`
	Changed  bool `db:"changed"`
}

const (
	insertDocument = `INSERT INTO %s (id, doc) VALUES ($1, $2)`

	upsertFields = `WITH prev AS (SELECT doc FROM %[1]s WHERE id = $1)
INSERT INTO %[1]s (id, doc) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET doc = %[1]s.doc || EXCLUDED.doc
RETURNING (xmax = 0) AS inserted, (SELECT doc FROM prev) IS DISTINCT FROM %[1]s.doc AS changed`

	updateFields = `WITH prev AS (SELECT doc FROM %[1]s WHERE id = $1)
UPDATE %[1]s SET doc = %[1]s.doc || $2::jsonb WHERE id = $1
RETURNING false AS inserted, (SELECT doc FROM prev) IS DISTINCT FROM %[1]s.doc AS changed`

	deleteDocument = `DELETE FROM %s WHERE id = $1`
)

// collection работает с таблицей как с коллекцией документов: вставка как есть,
// фильтры равенства по JSON-путям, обновление полей верхнего уровня.
type collection struct {
	db    *sqlx.DB
	table string
}

func (c collection) insert(ctx context.Context, doc models.Document) (string, error) {
	log := logger.FromContext(ctx)

	id, body, err := splitID(doc)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingDocument, err)
	}

	if _, err = c.db.ExecContext(ctx, fmt.Sprintf(insertDocument, c.table), id, string(payload)); err != nil {
		log.Err(err).Str("table", c.table).Str("id", id).Msg("insert failed")
		if known := classify(err); known != nil {
			return "", known
		}
		return "", fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return id, nil
}

func (c collection) findOne(ctx context.Context, id uuid.UUID) (documentRow, bool, error) {
	query, args, err := psql.Select("id", "doc", "created_at").
		From(c.table).
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return documentRow{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var row documentRow
	err = c.db.GetContext(ctx, &row, query, args...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return documentRow{}, false, nil
	case err != nil:
		logger.FromContext(ctx).Err(err).Str("table", c.table).Msg("find one failed")
		return documentRow{}, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return row, true, nil
}

// find возвращает строки в порядке вставки. Без page возвращает все.
func (c collection) find(ctx context.Context, where sq.Eq, page *models.Page) ([]documentRow, error) {
	q := psql.Select("id", "doc", "created_at").From(c.table).OrderBy("created_at", "id")
	if len(where) > 0 {
		q = q.Where(where)
	}
	if page != nil {
		q = q.Limit(uint64(page.Size)).Offset(uint64(page.Offset()))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows := []documentRow{}
	if err := c.db.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("table", c.table).Msg("find failed")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return rows, nil
}

func (c collection) count(ctx context.Context, where sq.Eq) (int64, error) {
	q := psql.Select("COUNT(*)").From(c.table)
	if len(where) > 0 {
		q = q.Where(where)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int64
	if err := c.db.GetContext(ctx, &total, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("table", c.table).Msg("count failed")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return total, nil
}

// set перезаписывает указанные поля документа. При upsert отсутствующий
// документ создаётся только из этих полей.
func (c collection) set(ctx context.Context, id uuid.UUID, fields models.Document, upsert bool) (models.UpdateResult, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("%w: %w", ErrEncodingDocument, err)
	}

	query := fmt.Sprintf(updateFields, c.table)
	if upsert {
		query = fmt.Sprintf(upsertFields, c.table)
	}

	result := models.UpdateResult{Acknowledged: true}

	var out setResult
	err = c.db.GetContext(ctx, &out, query, id.String(), string(payload))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return result, nil
	case err != nil:
		logger.FromContext(ctx).Err(err).Str("table", c.table).Str("id", id.String()).Msg("update failed")
		if known := classify(err); known != nil {
			return models.UpdateResult{}, known
		}
		return models.UpdateResult{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if out.Inserted {
		upserted := id.String()
		result.UpsertedCount = 1
		result.UpsertedID = &upserted
		return result, nil
	}

	result.MatchedCount = 1
	if out.Changed {
		result.ModifiedCount = 1
	}
	return result, nil
}

func (c collection) remove(ctx context.Context, id uuid.UUID) (int64, error) {
	res, err := c.db.ExecContext(ctx, fmt.Sprintf(deleteDocument, c.table), id.String())
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("table", c.table).Str("id", id.String()).Msg("delete failed")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return affected, nil
}

// splitID забирает _id клиента из doc или выдаёт новый.
func splitID(doc models.Document) (string, models.Document, error) {
	raw, ok := doc[models.IDField]
	if !ok {
		return uuid.NewString(), doc, nil
	}

	s, _ := raw.(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidID, raw)
	}

	body := make(models.Document, len(doc)-1)
	for k, v := range doc {
		if k != models.IDField {
			body[k] = v
		}
	}
	return id.String(), body, nil
}
