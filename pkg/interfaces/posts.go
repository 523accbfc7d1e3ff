package interfaces

import (
	"context"
	"time"
)

// NewPost carries the values written by a single insert into the posts table.
type NewPost struct {
	Title   string
	Content string
}

// PersistedPost holds the server-assigned values returned by the insert.
// Either field is nil when the database did not return it.
type PersistedPost struct {
	ID        *int64
	CreatedAt *time.Time
}

// InsertOptions tune a single insert.
type InsertOptions struct {
	// DryRun executes the insert and rolls the transaction back.
	DryRun bool
}

// PostStore inserts posts inside one transaction.
type PostStore interface {
	Insert(ctx context.Context, post NewPost, opts InsertOptions) (*PersistedPost, error)
}

// PostStoreOpener connects to the database identified by dsn. The returned
// close function releases the connection and must be called on every path.
type PostStoreOpener func(ctx context.Context, dsn string) (PostStore, func() error, error)
