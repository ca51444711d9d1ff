package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	v1 "github.com/pulse-lab/pulse/internal/api/v1"
	"github.com/pulse-lab/pulse/internal/core/storage"
)

const (
	queryInsertPost = `
		INSERT INTO posts (id, content, media_url, likes, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	// queryIncrementLikes bumps the counter in place so concurrent likes on
	// the same post never lose an update.
	queryIncrementLikes = `
		UPDATE posts
		SET likes = likes + 1
		WHERE id = $1
		RETURNING likes
	`

	queryListPosts = `
		SELECT id, content, media_url, likes, created_at
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1
	`

	queryListPostCounters = `SELECT likes FROM posts`

	queryInsertFeedback = `
		INSERT INTO feedback (id, rating, created_at)
		VALUES ($1, $2, $3)
	`

	queryListFeedback = `SELECT id, rating, created_at FROM feedback`
)

// defaultPostPageSize applies when ListPosts is called without a limit.
const defaultPostPageSize = 50

// ContentAdapter implements storage.ContentStore using PostgreSQL.
type ContentAdapter struct {
	db *sql.DB
}

var _ storage.ContentStore = (*ContentAdapter)(nil)

// NewContentAdapter creates a new ContentAdapter sharing the given connection.
func NewContentAdapter(db *sql.DB) *ContentAdapter {
	return &ContentAdapter{db: db}
}

// CreatePost inserts a post. ID and CreatedAt must already be set.
func (a *ContentAdapter) CreatePost(ctx context.Context, post *v1.Post) error {
	_, err := a.db.ExecContext(ctx, queryInsertPost,
		post.ID,
		post.Content,
		nullString(post.MediaURL),
		post.Likes,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: create post: %w", storage.ErrStoreUnavailable, err)
	}

	slog.Debug("[ContentAdapter] Created post", "post_id", post.ID)
	return nil
}

// IncrementLikes adds one like and returns the new counter.
func (a *ContentAdapter) IncrementLikes(ctx context.Context, postID string) (int, error) {
	var likes int
	err := a.db.QueryRowContext(ctx, queryIncrementLikes, postID).Scan(&likes)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("post %s: %w", postID, storage.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: increment likes: %w", storage.ErrStoreUnavailable, err)
	}
	return likes, nil
}

// ListPosts returns the newest posts first.
func (a *ContentAdapter) ListPosts(ctx context.Context, limit int) ([]*v1.Post, error) {
	if limit <= 0 {
		limit = defaultPostPageSize
	}

	rows, err := a.db.QueryContext(ctx, queryListPosts, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list posts: %w", storage.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var posts []*v1.Post
	for rows.Next() {
		var (
			post     v1.Post
			mediaURL sql.NullString
		)
		if err := rows.Scan(&post.ID, &post.Content, &mediaURL, &post.Likes, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		post.MediaURL = mediaURL.String
		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}

// ListPostCounters returns the like counter of every post.
// A NULL counter is reported as -1 so the aggregator skips the row.
func (a *ContentAdapter) ListPostCounters(ctx context.Context) ([]v1.PostCounter, error) {
	rows, err := a.db.QueryContext(ctx, queryListPostCounters)
	if err != nil {
		return nil, fmt.Errorf("%w: list post counters: %w", storage.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var counters []v1.PostCounter
	for rows.Next() {
		var likes sql.NullInt64
		if err := rows.Scan(&likes); err != nil {
			return nil, fmt.Errorf("failed to scan post counter: %w", err)
		}
		if !likes.Valid {
			counters = append(counters, v1.PostCounter{Likes: -1})
			continue
		}
		counters = append(counters, v1.PostCounter{Likes: int(likes.Int64)})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post counters: %w", err)
	}
	return counters, nil
}

// SaveFeedback stores one rating.
func (a *ContentAdapter) SaveFeedback(ctx context.Context, feedback *v1.Feedback) error {
	_, err := a.db.ExecContext(ctx, queryInsertFeedback,
		feedback.ID,
		string(feedback.Rating),
		feedback.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: save feedback: %w", storage.ErrStoreUnavailable, err)
	}
	return nil
}

// ListFeedback returns every feedback row.
func (a *ContentAdapter) ListFeedback(ctx context.Context) ([]v1.Feedback, error) {
	rows, err := a.db.QueryContext(ctx, queryListFeedback)
	if err != nil {
		return nil, fmt.Errorf("%w: list feedback: %w", storage.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []v1.Feedback
	for rows.Next() {
		var (
			f         v1.Feedback
			rating    sql.NullString
			createdAt sql.NullTime
		)
		if err := rows.Scan(&f.ID, &rating, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		f.Rating = v1.Rating(rating.String)
		if createdAt.Valid {
			f.CreatedAt = createdAt.Time.UTC()
		}
		out = append(out, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback: %w", err)
	}
	return out, nil
}
