package database

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gestionschool/gestionecole/core"
	"github.com/gestionschool/gestionecole/core/record"
	"github.com/gestionschool/gestionecole/core/school"
	"github.com/gestionschool/gestionecole/storage/database/inmem"
	"github.com/gestionschool/gestionecole/storage/database/mongodb"
	"github.com/gestionschool/gestionecole/storage/database/postgres"
	"github.com/gestionschool/gestionecole/storage/database/redisdb"
)

// DB is the store handle shared by every repository. Exactly one engine client is set.
type DB struct {
	Engine string

	mongo *mongo.Database
	pg    *sqlx.DB
	redis *redis.Client
	mem   *inmemdb.DB
}

// Open connects to the engine selected by conf.Database.Engine.
func Open(ctx context.Context, conf *core.Config) (*DB, error) {
	db := &DB{Engine: conf.Database.Engine}
	var err error
	switch conf.Database.Engine {
	case core.EngineMongo:
		db.mongo, err = mongodb.Open(ctx, conf.Database.URI, conf.Database.Name)
	case core.EnginePostgres:
		db.pg, err = postgres.Open(ctx, conf.Database.URI)
	case core.EngineRedis:
		db.redis, err = redisdb.Open(ctx, conf.Database.URI)
	case core.EngineMemory:
		db.mem = inmemdb.Open()
	default:
		err = fmt.Errorf("unknown database engine %q", conf.Database.Engine)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s database", conf.Database.Engine)
	}
	return db, nil
}

// OpenMemory returns a DB backed by the in-memory engine.
func OpenMemory() *DB {
	return &DB{Engine: core.EngineMemory, mem: inmemdb.Open()}
}

func (db *DB) Close(ctx context.Context) error {
	switch {
	case db.mongo != nil:
		return mongodb.Close(ctx, db.mongo)
	case db.pg != nil:
		return db.pg.Close()
	case db.redis != nil:
		return db.redis.Close()
	case db.mem != nil:
		return db.mem.Close()
	}
	return nil
}

// Migrate prepares the collections of every record kind: tables and lookup indexes.
func Migrate(ctx context.Context, db *DB) error {
	lookups := map[string][]string{
		school.ClassCollection:          school.ClassSchema.Lookups,
		school.CourseCollection:         school.CourseSchema.Lookups,
		school.StudentCollection:        school.StudentSchema.Lookups,
		school.TeacherCollection:        school.TeacherSchema.Lookups,
		school.AttendanceMarkCollection: school.AttendanceMarkSchema.Lookups,
		school.TimetableSlotCollection:  school.TimetableSlotSchema.Lookups,
		school.GradeCollection:          school.GradeSchema.Lookups,
		school.TuitionRecordCollection:  school.TuitionRecordSchema.Lookups,
	}
	for _, coll := range school.Collections {
		var err error
		switch {
		case db.mongo != nil:
			err = mongodb.EnsureIndexes(ctx, db.mongo, coll, lookups[coll])
		case db.pg != nil:
			err = postgres.CreateTable(ctx, db.pg, coll, lookups[coll])
		}
		if err != nil {
			return errors.Wrap(err, "migrating database")
		}
	}
	return nil
}

// NewRepository returns the repository of `schema` on the engine of db.
func NewRepository[T any](db *DB, schema record.Schema[T]) record.Repository[T] {
	switch {
	case db.mongo != nil:
		return mongodb.NewRepository(db.mongo, schema)
	case db.pg != nil:
		return postgres.NewRepository(db.pg, schema)
	case db.redis != nil:
		return redisdb.NewRepository(db.redis, schema)
	default:
		return inmemdb.NewRepository(db.mem, schema)
	}
}

// NewSchoolRepositories returns the repositories of every record kind.
func NewSchoolRepositories(db *DB) school.Repositories {
	return school.Repositories{
		Classes:         NewRepository(db, school.ClassSchema),
		Courses:         NewRepository(db, school.CourseSchema),
		Students:        NewRepository(db, school.StudentSchema),
		Teachers:        NewRepository(db, school.TeacherSchema),
		AttendanceMarks: NewRepository(db, school.AttendanceMarkSchema),
		TimetableSlots:  NewRepository(db, school.TimetableSlotSchema),
		Grades:          NewRepository(db, school.GradeSchema),
		TuitionRecords:  NewRepository(db, school.TuitionRecordSchema),
	}
}
