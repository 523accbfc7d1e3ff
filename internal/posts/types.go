package posts

import (
	"time"

	"github.com/uptrace/bun"
)

// Post is a row in the externally managed posts table. The publisher only
// writes Title and Content; ID and CreatedAt are assigned by the server.
type Post struct {
	bun.BaseModel `bun:"table:posts"`

	ID        int64     `bun:"id,pk,autoincrement"                             json:"id"`
	Title     string    `bun:"title,notnull"                                   json:"title"`
	Content   string    `bun:"content,notnull"                                 json:"content"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
