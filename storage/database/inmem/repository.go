package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/gestionschool/gestionecole/core/record"
	"github.com/gestionschool/gestionecole/storage/database/jsondoc"
)

type repository[T any] struct {
	db     *DB
	schema record.Schema[T]
}

func NewRepository[T any](db *DB, schema record.Schema[T]) record.Repository[T] {
	return &repository[T]{db: db, schema: schema}
}

func (repo *repository[T]) unavailable(op string) error {
	return record.NewStoreError(record.ErrStoreUnavailable, op, repo.schema.Collection, errClosed)
}

func (repo *repository[T]) conflict(op string, err error) error {
	return record.NewStoreError(record.ErrStoreConflict, op, repo.schema.Collection, err)
}

func (repo *repository[T]) decode(op string, doc []byte) (T, error) {
	var rec T
	if err := jsondoc.Decode(doc, &rec); err != nil {
		return rec, repo.conflict(op, err)
	}
	return rec, nil
}

func (repo *repository[T]) QueryAll(ctx context.Context) ([]T, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if repo.db.closed {
		return nil, repo.unavailable("find")
	}

	t := repo.db.tables[repo.schema.Collection]
	recs := make([]T, 0, len(t))
	for _, doc := range t {
		rec, err := repo.decode("find", doc)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (repo *repository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if repo.db.closed {
		return nil, repo.unavailable("findOne")
	}

	doc, ok := repo.db.tables[repo.schema.Collection][id]
	if !ok {
		return nil, nil
	}
	rec, err := repo.decode("findOne", doc)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (repo *repository[T]) Save(ctx context.Context, rec T) (T, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if repo.db.closed {
		return rec, repo.unavailable("save")
	}

	if repo.schema.GetID(&rec) == "" {
		repo.schema.SetID(&rec, uuid.NewString())
	}
	doc, err := jsondoc.Encode(rec)
	if err != nil {
		return rec, repo.conflict("save", err)
	}
	repo.db.table(repo.schema.Collection)[repo.schema.GetID(&rec)] = doc

	// return what was stored, not the caller's pointers
	return repo.decode("save", doc)
}

func (repo *repository[T]) DeleteByID(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if repo.db.closed {
		return repo.unavailable("delete")
	}

	delete(repo.db.tables[repo.schema.Collection], id)
	return nil
}

func (repo *repository[T]) QueryByField(ctx context.Context, field, value string) ([]T, error) {
	if !repo.schema.HasLookup(field) {
		return nil, record.ErrLookupNotDeclared{Collection: repo.schema.Collection, Field: field}
	}

	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if repo.db.closed {
		return nil, repo.unavailable("find")
	}

	recs := make([]T, 0)
	for _, doc := range repo.db.tables[repo.schema.Collection] {
		ok, err := jsondoc.FieldEquals(doc, field, value)
		if err != nil {
			return nil, repo.conflict("find", err)
		}
		if !ok {
			continue
		}
		rec, err := repo.decode("find", doc)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
