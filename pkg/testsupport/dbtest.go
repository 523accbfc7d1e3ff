package testsupport

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// PostsSchemaSQLite mirrors the production posts table for SQLite.
const PostsSchemaSQLite = `CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// NewSQLiteFile returns the path of a fresh SQLite database inside a test
// temp directory, with the statements in schema applied.
func NewSQLiteFile(t testing.TB, schema ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "posts.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.ExecContext(context.Background(), stmt); err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return path
}

// NewSQLitePostsFile is NewSQLiteFile with the posts table in place.
func NewSQLitePostsFile(t testing.TB) string {
	t.Helper()
	return NewSQLiteFile(t, PostsSchemaSQLite)
}

// StoredPost is a row read back for assertions.
type StoredPost struct {
	ID      int64
	Title   string
	Content string
}

// ReadPosts returns every row of the posts table in id order.
func ReadPosts(t testing.TB, path string) []StoredPost {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(context.Background(), "SELECT id, title, content FROM posts ORDER BY id")
	if err != nil {
		t.Fatalf("query posts: %v", err)
	}
	defer rows.Close()

	var out []StoredPost
	for rows.Next() {
		var post StoredPost
		if err := rows.Scan(&post.ID, &post.Title, &post.Content); err != nil {
			t.Fatalf("scan post: %v", err)
		}
		out = append(out, post)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate posts: %v", err)
	}
	return out
}
