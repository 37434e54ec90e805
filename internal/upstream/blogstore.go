package upstream

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq" // PostgreSQL driver and array types

	infraconfig "github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/config"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
)

const pingTimeout = 5 * time.Second

// OpenPostgres connects to the CMS database and configures the pool.
func OpenPostgres(ctx context.Context, cfg infraconfig.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}
	return db, nil
}

const selectPublishedPosts = `
	SELECT id, slug, title, excerpt, content, category, tags,
	       author_name, author_avatar, featured_image, featured,
	       status, published_at, updated_at
	FROM posts
	WHERE status = 'published'
	ORDER BY published_at DESC NULLS LAST, id`

type postRow struct {
	ID            string         `db:"id"`
	Slug          sql.NullString `db:"slug"`
	Title         string         `db:"title"`
	Excerpt       sql.NullString `db:"excerpt"`
	Content       sql.NullString `db:"content"`
	Category      sql.NullString `db:"category"`
	Tags          pq.StringArray `db:"tags"`
	AuthorName    sql.NullString `db:"author_name"`
	AuthorAvatar  sql.NullString `db:"author_avatar"`
	FeaturedImage sql.NullString `db:"featured_image"`
	Featured      bool           `db:"featured"`
	Status        string         `db:"status"`
	PublishedAt   sql.NullTime   `db:"published_at"`
	UpdatedAt     sql.NullTime   `db:"updated_at"`
}

type postAuthor struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// postJSON is the CMS post shape the blog normalizer reads.
type postJSON struct {
	ID            string      `json:"id"`
	Slug          string      `json:"slug,omitempty"`
	Title         string      `json:"title"`
	Excerpt       string      `json:"excerpt,omitempty"`
	Content       string      `json:"content,omitempty"`
	Category      string      `json:"category,omitempty"`
	Tags          []string    `json:"tags"`
	Author        *postAuthor `json:"author,omitempty"`
	FeaturedImage string      `json:"featured_image,omitempty"`
	Featured      bool        `json:"featured"`
	Status        string      `json:"status"`
	PublishedAt   string      `json:"published_at,omitempty"`
	UpdatedAt     string      `json:"updated_at,omitempty"`
}

// BlogStore reads published posts from the CMS PostgreSQL database.
type BlogStore struct {
	db *sqlx.DB
}

func NewBlogStore(db *sqlx.DB) *BlogStore {
	return &BlogStore{db: db}
}

func (s *BlogStore) Provider() domain.Provider { return domain.ProviderBlog }
func (s *BlogStore) Name() string              { return "postgres" }

// Fetch returns every published post.
func (s *BlogStore) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	var rows []postRow
	if err := s.db.SelectContext(ctx, &rows, selectPublishedPosts); err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}

	out := make([]json.RawMessage, 0, len(rows))
	for i := range rows {
		b, err := json.Marshal(rows[i].toJSON())
		if err != nil {
			return nil, fmt.Errorf("encode post %s: %w", rows[i].ID, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// Ping reports database reachability for readiness checks.
func (s *BlogStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (r *postRow) toJSON() postJSON {
	p := postJSON{
		ID:            r.ID,
		Slug:          r.Slug.String,
		Title:         r.Title,
		Excerpt:       r.Excerpt.String,
		Content:       r.Content.String,
		Category:      r.Category.String,
		Tags:          []string(r.Tags),
		FeaturedImage: r.FeaturedImage.String,
		Featured:      r.Featured,
		Status:        r.Status,
		PublishedAt:   nullTime(r.PublishedAt),
		UpdatedAt:     nullTime(r.UpdatedAt),
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if r.AuthorName.String != "" {
		p.Author = &postAuthor{Name: r.AuthorName.String, Avatar: r.AuthorAvatar.String}
	}
	return p
}

func nullTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.UTC().Format(time.RFC3339)
}
