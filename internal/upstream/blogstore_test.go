package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postColumns = []string{
	"id", "slug", "title", "excerpt", "content", "category", "tags",
	"author_name", "author_avatar", "featured_image", "featured",
	"status", "published_at", "updated_at",
}

func newMockStore(t *testing.T) (*BlogStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBlogStore(sqlx.NewDb(db, "postgres")), mock
}

func TestBlogStore_Fetch(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	published := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(postColumns).
		AddRow("p1", "hello-world", "Hello World", "Intro", "Body", "Engineering", []byte("{go,testing}"),
			"Ada", "https://img/ada.png", "https://img/cover.png", true, "published", published, nil).
		AddRow("p2", nil, "Untagged", nil, nil, nil, nil,
			nil, nil, nil, false, "published", nil, published)

	mock.ExpectQuery("FROM posts").WillReturnRows(rows)

	records, err := store.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	var first postJSON
	require.NoError(t, json.Unmarshal(records[0], &first))
	assert.Equal(t, "hello-world", first.Slug)
	assert.Equal(t, []string{"go", "testing"}, first.Tags)
	require.NotNil(t, first.Author)
	assert.Equal(t, "Ada", first.Author.Name)
	assert.Equal(t, "2024-01-02T10:00:00Z", first.PublishedAt)
	assert.True(t, first.Featured)

	var second postJSON
	require.NoError(t, json.Unmarshal(records[1], &second))
	assert.Empty(t, second.Slug)
	assert.Equal(t, []string{}, second.Tags)
	assert.Nil(t, second.Author)
	assert.Empty(t, second.PublishedAt)
	assert.Equal(t, "2024-01-02T10:00:00Z", second.UpdatedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogStore_FetchError(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery("FROM posts").WillReturnError(errors.New("connection reset"))

	_, err := store.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select posts")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogStore_Ping(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectPing()
	store := NewBlogStore(sqlx.NewDb(db, "postgres"))
	require.NoError(t, store.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
