package v1

import (
	"fmt"
	"strings"
	"time"
)

// Rating is the three-level satisfaction score attached to feedback.
type Rating string

const (
	RatingHappy  Rating = "happy"
	RatingNormal Rating = "normal"
	RatingSad    Rating = "sad"
)

// Valid reports whether r is one of the known ratings.
func (r Rating) Valid() bool {
	switch r {
	case RatingHappy, RatingNormal, RatingSad:
		return true
	}
	return false
}

const maxPostContentLength = 500

// Post is a message on the board.
type Post struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	MediaURL  string    `json:"media_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PostCounter is the aggregate view of a post the metrics aggregator reads.
type PostCounter struct {
	Likes int `json:"likes"`
}

// Feedback is a single satisfaction rating.
type Feedback struct {
	ID        string    `json:"id,omitempty"`
	Rating    Rating    `json:"rating"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// CreatePostRequest is the body accepted by POST /v1/posts.
type CreatePostRequest struct {
	Content  string `json:"content"`
	MediaURL string `json:"media_url,omitempty"`
}

// Validate trims and checks the post content.
func (r *CreatePostRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	r.MediaURL = strings.TrimSpace(r.MediaURL)
	if r.Content == "" && r.MediaURL == "" {
		return fmt.Errorf("content or media_url is required")
	}
	if len([]rune(r.Content)) > maxPostContentLength {
		return fmt.Errorf("content must be at most %d characters", maxPostContentLength)
	}
	return nil
}

// FeedbackRequest is the body accepted by POST /v1/feedback.
type FeedbackRequest struct {
	Rating Rating `json:"rating"`
}

// Validate checks the rating value.
func (r FeedbackRequest) Validate() error {
	if !r.Rating.Valid() {
		return fmt.Errorf("rating must be one of happy, normal, sad")
	}
	return nil
}
