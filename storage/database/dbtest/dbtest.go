// Package dbtest holds the behaviour every record.Repository implementation must share.
package dbtest

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestionschool/gestionecole/core/record"
)

// Item is a record kind with one field of every stored kind.
type Item struct {
	ID     string   `json:"id" bson:"_id,omitempty"`
	Label  *string  `json:"label" bson:"label,omitempty"`
	Group  *string  `json:"group" bson:"group,omitempty"`
	Count  *int     `json:"count" bson:"count,omitempty"`
	Amount *float64 `json:"amount" bson:"amount,omitempty"`
	Active *bool    `json:"active" bson:"active,omitempty"`
}

const GroupField = "group"

// NewCollection returns a collection name no other test run uses.
func NewCollection() string {
	return "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func ItemSchema(collection string) record.Schema[Item] {
	return record.Schema[Item]{
		Collection: collection,
		ID:         func(it *Item) *string { return &it.ID },
		Lookups:    []string{GroupField},
	}
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

// RunRepositoryTests checks `repo` against the record.Repository contract.
// repo must be bound to ItemSchema and its collection must be empty.
func RunRepositoryTests(t *testing.T, repo record.Repository[Item]) {
	ctx := context.Background()

	full := Item{
		Label:  strPtr("full"),
		Group:  strPtr("a"),
		Count:  intPtr(0),
		Amount: floatPtr(12.5),
		Active: boolPtr(false),
	}
	var saved Item

	t.Run("empty", func(t *testing.T) {
		recs, err := repo.QueryAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	})

	t.Run("save assigns an id", func(t *testing.T) {
		var err error
		saved, err = repo.Save(ctx, full)
		require.NoError(t, err)
		require.NotEmpty(t, saved.ID)

		want := full
		want.ID = saved.ID
		assert.Equal(t, want, saved)
	})

	t.Run("round trip", func(t *testing.T) {
		got, err := repo.GetByID(ctx, saved.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, saved, *got)
	})

	t.Run("absent", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "unknown")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("replace clears missing fields", func(t *testing.T) {
		replaced, err := repo.Save(ctx, Item{ID: saved.ID, Label: strPtr("replaced")})
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, saved.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, replaced, *got)
		assert.Nil(t, got.Group)
		assert.Nil(t, got.Active)

		recs, err := repo.QueryAll(ctx)
		require.NoError(t, err)
		assert.Len(t, recs, 1)
	})

	t.Run("save with unknown id creates", func(t *testing.T) {
		created, err := repo.Save(ctx, Item{ID: "custom-id", Group: strPtr("b")})
		require.NoError(t, err)
		assert.Equal(t, "custom-id", created.ID)

		got, err := repo.GetByID(ctx, "custom-id")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "b", *got.Group)
	})

	t.Run("query by field", func(t *testing.T) {
		a1, err := repo.Save(ctx, Item{Label: strPtr("a1"), Group: strPtr("a")})
		require.NoError(t, err)
		a2, err := repo.Save(ctx, Item{Label: strPtr("a2"), Group: strPtr("a")})
		require.NoError(t, err)
		_, err = repo.Save(ctx, Item{Label: strPtr("A"), Group: strPtr("A")})
		require.NoError(t, err)

		got, err := repo.QueryByField(ctx, GroupField, "a")
		require.NoError(t, err)
		assert.ElementsMatch(t, []Item{a1, a2}, got)

		got, err = repo.QueryByField(ctx, GroupField, "none")
		require.NoError(t, err)
		assert.Empty(t, got)

		_, err = repo.QueryByField(ctx, "label", "a1")
		var lookupErr record.ErrLookupNotDeclared
		assert.True(t, errors.As(err, &lookupErr))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteByID(ctx, saved.ID))
		require.NoError(t, repo.DeleteByID(ctx, saved.ID))
		require.NoError(t, repo.DeleteByID(ctx, "unknown"))

		got, err := repo.GetByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		recs, err := repo.QueryAll(ctx)
		require.NoError(t, err)
		for _, rec := range recs {
			assert.NotEqual(t, saved.ID, rec.ID)
		}
	})
}
