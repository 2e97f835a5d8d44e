package record

import (
	"context"

	"github.com/pkg/errors"
)

type (
	// Repository is the persistence contract shared by every record kind.
	Repository[T any] interface {
		// QueryAll returns every record of the collection, in store-defined order.
		QueryAll(ctx context.Context) ([]T, error)
		// GetByID returns nil (and no error) when no record has this id.
		GetByID(ctx context.Context, id string) (*T, error)
		// Save creates the record when its id is unset and assigns one,
		// otherwise it replaces the whole stored document with this id (or creates it).
		Save(ctx context.Context, rec T) (T, error)
		// DeleteByID removes the record if present; deleting an unknown id is not an error.
		DeleteByID(ctx context.Context, id string) error
		// QueryByField returns the records whose `field` equals `value`.
		// Only Schema.Lookups fields are accepted.
		QueryByField(ctx context.Context, field, value string) ([]T, error)
	}

	// Service exposes a Repository to the API, applying BeforeSave (if any) on every save.
	Service[T any] struct {
		repo   Repository[T]
		schema Schema[T]

		BeforeSave func(rec *T)
	}
)

func NewService[T any](repo Repository[T], schema Schema[T]) *Service[T] {
	return &Service[T]{repo: repo, schema: schema}
}

func (svc *Service[T]) Schema() Schema[T] { return svc.schema }

func (svc *Service[T]) QueryAll(ctx context.Context) ([]T, error) {
	recs, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "querying %s", svc.schema.Collection)
	}
	return recs, nil
}

func (svc *Service[T]) GetByID(ctx context.Context, id string) (*T, error) {
	rec, err := svc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "getting %s %q", svc.schema.Collection, id)
	}
	return rec, nil
}

func (svc *Service[T]) Save(ctx context.Context, rec T) (T, error) {
	if svc.BeforeSave != nil {
		svc.BeforeSave(&rec)
	}
	saved, err := svc.repo.Save(ctx, rec)
	if err != nil {
		var zero T
		return zero, errors.Wrapf(err, "saving %s", svc.schema.Collection)
	}
	return saved, nil
}

// Replace saves rec under id, discarding whatever id rec carried.
func (svc *Service[T]) Replace(ctx context.Context, id string, rec T) (T, error) {
	svc.schema.SetID(&rec, id)
	return svc.Save(ctx, rec)
}

func (svc *Service[T]) Delete(ctx context.Context, id string) error {
	if err := svc.repo.DeleteByID(ctx, id); err != nil {
		return errors.Wrapf(err, "deleting %s %q", svc.schema.Collection, id)
	}
	return nil
}

func (svc *Service[T]) QueryByField(ctx context.Context, field, value string) ([]T, error) {
	recs, err := svc.repo.QueryByField(ctx, field, value)
	if err != nil {
		return nil, errors.Wrapf(err, "querying %s by %s", svc.schema.Collection, field)
	}
	return recs, nil
}

// Count returns the number of stored records.
func (svc *Service[T]) Count(ctx context.Context) (int, error) {
	recs, err := svc.QueryAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}
