package redisdb

import (
	"context"
	"net"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gestionschool/gestionecole/core/record"
	"github.com/gestionschool/gestionecole/storage/database/jsondoc"
)

type repository[T any] struct {
	client *redis.Client
	schema record.Schema[T]
	key    string
}

func NewRepository[T any](client *redis.Client, schema record.Schema[T]) record.Repository[T] {
	return &repository[T]{
		client: client,
		schema: schema,
		key:    collectionKey(schema.Collection),
	}
}

// storeError classifies client errors: connection failures are ErrStoreUnavailable, anything else ErrStoreConflict.
func (repo *repository[T]) storeError(op string, err error) error {
	kind := record.ErrStoreConflict
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, redis.ErrClosed) || errors.Is(err, context.DeadlineExceeded) {
		kind = record.ErrStoreUnavailable
	}
	return record.NewStoreError(kind, op, repo.schema.Collection, err)
}

func (repo *repository[T]) decode(op string, doc string) (T, error) {
	var rec T
	if err := jsondoc.Decode([]byte(doc), &rec); err != nil {
		return rec, repo.storeError(op, err)
	}
	return rec, nil
}

func (repo *repository[T]) QueryAll(ctx context.Context) ([]T, error) {
	docs, err := repo.client.HVals(ctx, repo.key).Result()
	if err != nil {
		return nil, repo.storeError("find", err)
	}
	recs := make([]T, 0, len(docs))
	for _, doc := range docs {
		rec, err := repo.decode("find", doc)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (repo *repository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	doc, err := repo.client.HGet(ctx, repo.key, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, repo.storeError("findOne", err)
	}
	rec, err := repo.decode("findOne", doc)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (repo *repository[T]) Save(ctx context.Context, rec T) (T, error) {
	if repo.schema.GetID(&rec) == "" {
		repo.schema.SetID(&rec, uuid.NewString())
	}
	doc, err := jsondoc.Encode(rec)
	if err != nil {
		return rec, repo.storeError("save", err)
	}
	if err = repo.client.HSet(ctx, repo.key, repo.schema.GetID(&rec), doc).Err(); err != nil {
		return rec, repo.storeError("save", err)
	}
	return rec, nil
}

func (repo *repository[T]) DeleteByID(ctx context.Context, id string) error {
	if err := repo.client.HDel(ctx, repo.key, id).Err(); err != nil {
		return repo.storeError("delete", err)
	}
	return nil
}

// QueryByField scans the whole hash; redis has no secondary index on hash values.
func (repo *repository[T]) QueryByField(ctx context.Context, field, value string) ([]T, error) {
	if !repo.schema.HasLookup(field) {
		return nil, record.ErrLookupNotDeclared{Collection: repo.schema.Collection, Field: field}
	}
	docs, err := repo.client.HVals(ctx, repo.key).Result()
	if err != nil {
		return nil, repo.storeError("find", err)
	}
	recs := make([]T, 0)
	for _, doc := range docs {
		ok, err := jsondoc.FieldEquals([]byte(doc), field, value)
		if err != nil {
			return nil, repo.storeError("find", err)
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
