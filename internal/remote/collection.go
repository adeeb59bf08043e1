// Package remote defines the contract the to-do view consumes from the
// table that holds its records. Implementations live in subpackages:
// rest (hosted PostgREST table), sqlitedb and jsonfile (local stores).
package remote

import (
	"context"

	"github.com/idilsaglam/todolist/internal/model"
)

// DefaultTable is the name of the remote collection.
const DefaultTable = "TodoList"

// Collection is a remote table of to-do records.
//
// SelectAll returns every record ordered by ascending id. Update and
// Delete filter by id equality; matching no row is not an error.
type Collection interface {
	SelectAll(ctx context.Context) ([]model.Item, error)
	Insert(ctx context.Context, item model.NewItem) error
	Update(ctx context.Context, id int64, patch model.Patch) error
	Delete(ctx context.Context, id int64) error
}
