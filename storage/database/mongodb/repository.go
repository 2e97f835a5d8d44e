package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gestionschool/gestionecole/core/record"
)

type repository[T any] struct {
	coll   *mongo.Collection
	schema record.Schema[T]
}

func NewRepository[T any](db *mongo.Database, schema record.Schema[T]) record.Repository[T] {
	return &repository[T]{
		coll:   db.Collection(schema.Collection),
		schema: schema,
	}
}

// storeError classifies driver errors: connectivity problems are ErrStoreUnavailable, anything else ErrStoreConflict.
func (repo *repository[T]) storeError(op string, err error) error {
	kind := record.ErrStoreConflict
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) || errors.Is(err, context.DeadlineExceeded) {
		kind = record.ErrStoreUnavailable
	}
	return record.NewStoreError(kind, op, repo.schema.Collection, err)
}

// objectID returns the stored form of `id`: ids in ObjectID hex form are kept as ObjectIDs,
// any other id is stored as is.
func objectID(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

// document encodes `rec` with `id` as its _id.
func (repo *repository[T]) document(rec T, id string) (bson.D, error) {
	repo.schema.SetID(&rec, "")
	data, err := bson.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var doc bson.D
	if err = bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return append(bson.D{{Key: "_id", Value: objectID(id)}}, doc...), nil
}

func (repo *repository[T]) find(ctx context.Context, filter bson.M) ([]T, error) {
	cur, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, repo.storeError("find", err)
	}
	recs := make([]T, 0)
	if err = cur.All(ctx, &recs); err != nil {
		return nil, repo.storeError("find", err)
	}
	return recs, nil
}

func (repo *repository[T]) QueryAll(ctx context.Context) ([]T, error) {
	return repo.find(ctx, bson.M{})
}

func (repo *repository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var rec T
	err := repo.coll.FindOne(ctx, bson.M{"_id": objectID(id)}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, repo.storeError("findOne", err)
	}
	return &rec, nil
}

func (repo *repository[T]) Save(ctx context.Context, rec T) (T, error) {
	id := repo.schema.GetID(&rec)
	if id == "" {
		id = primitive.NewObjectID().Hex()
		repo.schema.SetID(&rec, id)
	}
	doc, err := repo.document(rec, id)
	if err != nil {
		return rec, repo.storeError("save", err)
	}
	opts := options.Replace().SetUpsert(true)
	if _, err = repo.coll.ReplaceOne(ctx, bson.M{"_id": objectID(id)}, doc, opts); err != nil {
		return rec, repo.storeError("save", err)
	}
	return rec, nil
}

func (repo *repository[T]) DeleteByID(ctx context.Context, id string) error {
	if _, err := repo.coll.DeleteOne(ctx, bson.M{"_id": objectID(id)}); err != nil {
		return repo.storeError("delete", err)
	}
	return nil
}

func (repo *repository[T]) QueryByField(ctx context.Context, field, value string) ([]T, error) {
	if !repo.schema.HasLookup(field) {
		return nil, record.ErrLookupNotDeclared{Collection: repo.schema.Collection, Field: field}
	}
	return repo.find(ctx, bson.M{field: value})
}
