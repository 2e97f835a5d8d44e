package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/gestionschool/gestionecole/core/record"
	"github.com/gestionschool/gestionecole/storage/database/jsondoc"
)

type (
	repository[T any] struct {
		db     *sqlx.DB
		schema record.Schema[T]
		table  string
	}

	row struct {
		ID  string `db:"id"`
		Doc []byte `db:"doc"`
	}
)

func NewRepository[T any](db *sqlx.DB, schema record.Schema[T]) record.Repository[T] {
	return &repository[T]{
		db:     db,
		schema: schema,
		table:  pq.QuoteIdentifier(schema.Collection),
	}
}

// storeError classifies driver errors: connection failures are ErrStoreUnavailable, anything else ErrStoreConflict.
func (repo *repository[T]) storeError(op string, err error) error {
	kind := record.ErrStoreConflict
	var netErr net.Error
	var pqErr *pq.Error
	switch {
	case errors.As(err, &netErr), errors.Is(err, sql.ErrConnDone), errors.Is(err, context.DeadlineExceeded):
		kind = record.ErrStoreUnavailable
	case errors.As(err, &pqErr) && pqErr.Code.Class() == "08": // connection exception
		kind = record.ErrStoreUnavailable
	}
	return record.NewStoreError(kind, op, repo.schema.Collection, err)
}

func (repo *repository[T]) decodeRows(op string, rows []row) ([]T, error) {
	recs := make([]T, 0, len(rows))
	for _, r := range rows {
		var rec T
		if err := jsondoc.Decode(r.Doc, &rec); err != nil {
			return nil, repo.storeError(op, err)
		}
		// the key column is authoritative
		repo.schema.SetID(&rec, r.ID)
		recs = append(recs, rec)
	}
	return recs, nil
}

func (repo *repository[T]) QueryAll(ctx context.Context) ([]T, error) {
	var rows []row
	q := fmt.Sprintf("SELECT id, doc FROM %s", repo.table)
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, repo.storeError("find", err)
	}
	return repo.decodeRows("find", rows)
}

func (repo *repository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var r row
	q := fmt.Sprintf("SELECT id, doc FROM %s WHERE id = $1", repo.table)
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, repo.storeError("findOne", err)
	}
	recs, err := repo.decodeRows("findOne", []row{r})
	if err != nil {
		return nil, err
	}
	return &recs[0], nil
}

func (repo *repository[T]) Save(ctx context.Context, rec T) (T, error) {
	if repo.schema.GetID(&rec) == "" {
		repo.schema.SetID(&rec, uuid.NewString())
	}
	doc, err := jsondoc.Encode(rec)
	if err != nil {
		return rec, repo.storeError("save", err)
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc",
		repo.table,
	)
	// jsonb does not accept []byte parameters (sent as bytea)
	if _, err = repo.db.ExecContext(ctx, q, repo.schema.GetID(&rec), string(doc)); err != nil {
		return rec, repo.storeError("save", err)
	}
	return rec, nil
}

func (repo *repository[T]) DeleteByID(ctx context.Context, id string) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE id = $1", repo.table)
	if _, err := repo.db.ExecContext(ctx, q, id); err != nil {
		return repo.storeError("delete", err)
	}
	return nil
}

func (repo *repository[T]) QueryByField(ctx context.Context, field, value string) ([]T, error) {
	if !repo.schema.HasLookup(field) {
		return nil, record.ErrLookupNotDeclared{Collection: repo.schema.Collection, Field: field}
	}
	var rows []row
	// same expression as the lookup index
	q := fmt.Sprintf("SELECT id, doc FROM %s WHERE doc->>%s = $1", repo.table, pq.QuoteLiteral(field))
	if err := repo.db.SelectContext(ctx, &rows, q, value); err != nil {
		return nil, repo.storeError("find", err)
	}
	return repo.decodeRows("find", rows)
}
