package posts

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	"github.com/bloisdev/bloisdev-cli/pkg/interfaces"
)

var errDryRunRollback = errors.New("posts: dry run rollback")

// BunRepository inserts posts through bun.
type BunRepository struct {
	db bun.IDB
}

var _ interfaces.PostStore = (*BunRepository)(nil)

// NewBunRepository binds the repository to db.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

// Insert writes title and content in one transaction and returns the id and
// created_at values from the RETURNING clause. The transaction is rolled back
// on any error and, when opts.DryRun is set, after a successful insert.
func (r *BunRepository) Insert(ctx context.Context, post interfaces.NewPost, opts interfaces.InsertOptions) (*interfaces.PersistedPost, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("posts: bun repository requires a database")
	}

	record := &Post{
		Title:   post.Title,
		Content: post.Content,
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().
			Model(record).
			Column("title", "content").
			Returning("id, created_at").
			Exec(ctx); err != nil {
			return err
		}
		if opts.DryRun {
			return errDryRunRollback
		}
		return nil
	})
	if err != nil && !(opts.DryRun && errors.Is(err, errDryRunRollback)) {
		return nil, err
	}

	return toPersisted(record), nil
}

// toPersisted treats zero values as columns the database did not return.
func toPersisted(record *Post) *interfaces.PersistedPost {
	out := &interfaces.PersistedPost{}
	if record.ID != 0 {
		id := record.ID
		out.ID = &id
	}
	if !record.CreatedAt.IsZero() {
		createdAt := record.CreatedAt
		out.CreatedAt = &createdAt
	}
	return out
}
