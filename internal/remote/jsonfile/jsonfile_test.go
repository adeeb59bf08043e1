package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/model"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "todos.json"))
}

func TestSelectAll_MissingFileIsEmpty(t *testing.T) {
	s := newStore(t)
	items, err := s.SelectAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestInsertAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Insert(ctx, model.NewItem{Name: "Buy milk"}))
	require.NoError(t, s.Insert(ctx, model.NewItem{Name: "Walk dog"}))

	items, err := s.SelectAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{
		{ID: 1, Name: "Buy milk"},
		{ID: 2, Name: "Walk dog"},
	}, items)
}

func TestIDsAreNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Insert(ctx, model.NewItem{Name: "a"}))
	require.NoError(t, s.Insert(ctx, model.NewItem{Name: "b"}))
	require.NoError(t, s.Delete(ctx, 2))
	require.NoError(t, s.Insert(ctx, model.NewItem{Name: "c"}))

	items, err := s.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(3), items[1].ID)
}

func TestUpdateAndDeleteByID(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, s.Insert(ctx, model.NewItem{Name: n}))
	}

	require.NoError(t, s.Update(ctx, 2, model.SetCompleted(true)))
	require.NoError(t, s.Delete(ctx, 1))
	// No matching row is not an error.
	require.NoError(t, s.Update(ctx, 42, model.SetCompleted(true)))
	require.NoError(t, s.Delete(ctx, 42))

	items, err := s.SelectAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{
		{ID: 2, Name: "b", IsCompleted: true},
		{ID: 3, Name: "c"},
	}, items)
}

func TestSelectAllSortsHandEditedFile(t *testing.T) {
	s := newStore(t)
	raw := `{"items":[{"id":5,"name":"e","isCompleted":false},{"id":2,"name":"b","isCompleted":true}]}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(raw), 0o644))

	ctx := context.Background()
	items, err := s.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID)
	assert.Equal(t, int64(5), items[1].ID)

	require.NoError(t, s.Insert(ctx, model.NewItem{Name: "f"}))
	items, err = s.SelectAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), items[2].ID)
}

func TestCorruptFile(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{"), 0o644))

	_, err := s.SelectAll(context.Background())
	require.ErrorContains(t, err, "json unmarshal")
}
