package board

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	v1 "github.com/pulse-lab/pulse/internal/api/v1"
	httperr "github.com/pulse-lab/pulse/internal/core/errors"
	"github.com/pulse-lab/pulse/internal/core/quota"
	"github.com/pulse-lab/pulse/internal/core/storage"
)

const (
	msgInvalidJSON     = "Invalid JSON body"
	msgIdentityFailed  = "Failed to resolve pseudo identity"
	msgLoadFailed      = "Failed to load posts"
	msgCreateFailed    = "Failed to create post"
	msgLikeFailed      = "Failed to like post"
	msgFeedbackFailed  = "Failed to save feedback"
	msgPostNotFound    = "Post not found"
	msgQuotaUnrecorded = "Quota counter unavailable"
	sourceQR           = "qr"
	headerRetryAfter   = "Retry-After"
	metadataRatingKey  = "rating"
	metadataSourceKey  = "source"
	metadataChannelKey = "channel"
)

// SessionRequest is the optional body of POST /v1/sessions.
type SessionRequest struct {
	// Source is "qr" when the visit came from scanning a poster.
	Source string `json:"source,omitempty"`
}

// ShareRequest is the optional body of POST /v1/posts/:post_id/shares.
type ShareRequest struct {
	Channel string `json:"channel,omitempty"`
}

// FeedItem is a post together with the device's remaining likes on it.
type FeedItem struct {
	*v1.Post
	RemainingLikes int `json:"remaining_likes"`
}

// MeHandler returns the device's pseudo identity, issuing one on first use.
func (s *Service) MeHandler(c *gin.Context) {
	scope, unlock := s.acquire(c)
	defer unlock()

	id, created, err := s.identity.Identify(c.Request.Context(), scope.store)
	if err != nil {
		slog.Error("[Board] Failed to resolve pseudo identity", "device_id", scope.id, "error", err)
		writeError(c, http.StatusInternalServerError, httperr.HttpUnavailableError, msgIdentityFailed, nil)
		return
	}
	if created {
		s.emit(c.Request.Context(), v1.EventFirstVisit, id, "", nil)
	}

	c.JSON(http.StatusOK, gin.H{"user_pseudo_id": id})
}

// StartSessionHandler records a visit: first_visit for a new identity,
// session_start always and qr_scan when the visit came from a poster.
func (s *Service) StartSessionHandler(c *gin.Context) {
	var req SessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, httperr.HttpInvalidJsonError, msgInvalidJSON, nil)
			return
		}
	}

	scope, unlock := s.acquire(c)
	defer unlock()

	ctx := c.Request.Context()
	id, created, err := s.identity.Identify(ctx, scope.store)
	if err != nil {
		slog.Error("[Board] Failed to resolve pseudo identity", "device_id", scope.id, "error", err)
		writeError(c, http.StatusInternalServerError, httperr.HttpUnavailableError, msgIdentityFailed, nil)
		return
	}

	if created {
		s.emit(ctx, v1.EventFirstVisit, id, "", nil)
	}
	s.emit(ctx, v1.EventSessionStart, id, "", nil)
	if strings.EqualFold(strings.TrimSpace(req.Source), sourceQR) {
		s.emit(ctx, v1.EventQRScan, id, "", map[string]interface{}{metadataSourceKey: sourceQR})
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_pseudo_id": id,
		"first_visit":    created,
	})
}

// FeedHandler returns the newest posts, gated by the fetch cooldown.
// The cooldown is only recorded after a successful fetch.
func (s *Service) FeedHandler(c *gin.Context) {
	limit := s.feedPageSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(c, http.StatusBadRequest, httperr.HttpInvalidRequestError, "limit must be a positive integer", nil)
			return
		}
		if n < limit {
			limit = n
		}
	}

	scope, unlock := s.acquire(c)
	defer unlock()

	ctx := c.Request.Context()
	if d := scope.enforcer.AdmitFetch(ctx); !d.Allowed {
		writeQuotaExceeded(c, d)
		return
	}

	posts, err := s.content.ListPosts(ctx, limit)
	if err != nil {
		slog.Error("[Board] Failed to load posts", "device_id", scope.id, "error", err)
		writeError(c, http.StatusInternalServerError, httperr.HttpInternalError, msgLoadFailed, nil)
		return
	}

	if err := scope.enforcer.RecordFetch(ctx); err != nil {
		slog.Error("[Board] Failed to record fetch", "device_id", scope.id, "error", err)
		writeQuotaUnrecorded(c)
		return
	}

	items := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, FeedItem{Post: p, RemainingLikes: scope.enforcer.RemainingLikes(ctx, p.ID)})
	}
	c.JSON(http.StatusOK, gin.H{"posts": items})
}

// CreatePostHandler creates a post if the device's post window has room.
// The post is counted first and the count released if creation fails.
func (s *Service) CreatePostHandler(c *gin.Context) {
	var req v1.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidJsonError, msgInvalidJSON, nil)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidRequestError, err.Error(), nil)
		return
	}

	scope, unlock := s.acquire(c)
	defer unlock()

	ctx := c.Request.Context()
	d, err := scope.enforcer.TryPost(ctx)
	if err != nil {
		slog.Error("[Board] Failed to record post timestamp", "device_id", scope.id, "error", err)
		writeQuotaUnrecorded(c)
		return
	}
	if !d.Allowed {
		writeQuotaExceeded(c, d)
		return
	}

	post := &v1.Post{
		ID:        s.newID(),
		Content:   req.Content,
		MediaURL:  req.MediaURL,
		CreatedAt: s.now().UTC(),
	}
	if err := s.content.CreatePost(ctx, post); err != nil {
		slog.Error("[Board] Failed to create post", "device_id", scope.id, "error", err)
		if rerr := scope.enforcer.ReleasePost(ctx); rerr != nil {
			slog.Error("[Board] Failed to release post timestamp", "device_id", scope.id, "error", rerr)
		}
		writeError(c, http.StatusInternalServerError, httperr.HttpInternalError, msgCreateFailed, nil)
		return
	}

	s.emit(ctx, v1.EventPostCreated, s.pseudoID(ctx, scope), post.ID, nil)

	slog.Info("[Board] Post created", "post_id", post.ID, "remaining", d.Remaining)
	c.JSON(http.StatusCreated, gin.H{"post": post, "quota": d})
}

// LikeStatusHandler reports how many likes the device can still give a post.
func (s *Service) LikeStatusHandler(c *gin.Context) {
	postID := c.Param("post_id")

	scope, unlock := s.acquire(c)
	defer unlock()

	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"post_id":     postID,
		"likes_given": scope.enforcer.LikesGiven(ctx, postID),
		"quota":       scope.enforcer.CheckLike(ctx, postID),
	})
}

// LikeHandler adds one like to a post within the per-device ceiling.
// The like is counted against the device before the post counter moves and
// released again when the post is unknown or the increment fails.
func (s *Service) LikeHandler(c *gin.Context) {
	postID := c.Param("post_id")

	scope, unlock := s.acquire(c)
	defer unlock()

	ctx := c.Request.Context()
	d, err := scope.enforcer.RecordLike(ctx, postID)
	if err != nil {
		slog.Error("[Board] Failed to record like", "device_id", scope.id, "post_id", postID, "error", err)
		writeQuotaUnrecorded(c)
		return
	}
	if !d.Allowed {
		writeQuotaExceeded(c, d)
		return
	}

	likes, err := s.content.IncrementLikes(ctx, postID)
	if err != nil {
		if rerr := scope.enforcer.ReleaseLike(ctx, postID); rerr != nil {
			slog.Error("[Board] Failed to release like", "device_id", scope.id, "post_id", postID, "error", rerr)
		}
		if errors.Is(err, storage.ErrNotFound) {
			writeError(c, http.StatusNotFound, httperr.HttpNotFoundError, msgPostNotFound, gin.H{"post_id": postID})
			return
		}
		slog.Error("[Board] Failed to like post", "device_id", scope.id, "post_id", postID, "error", err)
		writeError(c, http.StatusInternalServerError, httperr.HttpInternalError, msgLikeFailed, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post_id": postID, "likes": likes, "quota": d})
}

// ShareHandler records that the device shared a post.
func (s *Service) ShareHandler(c *gin.Context) {
	postID := c.Param("post_id")

	var req ShareRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, httperr.HttpInvalidJsonError, msgInvalidJSON, nil)
			return
		}
	}

	scope, unlock := s.acquire(c)
	defer unlock()

	ctx := c.Request.Context()
	var metadata map[string]interface{}
	if ch := strings.TrimSpace(req.Channel); ch != "" {
		metadata = map[string]interface{}{metadataChannelKey: ch}
	}
	s.emit(ctx, v1.EventSharePost, s.pseudoID(ctx, scope), postID, metadata)

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// FeedbackHandler stores a satisfaction rating.
func (s *Service) FeedbackHandler(c *gin.Context) {
	var req v1.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidJsonError, msgInvalidJSON, nil)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidRequestError, err.Error(), nil)
		return
	}

	scope, unlock := s.acquire(c)
	defer unlock()

	ctx := c.Request.Context()
	fb := &v1.Feedback{
		ID:        s.newID(),
		Rating:    req.Rating,
		CreatedAt: s.now().UTC(),
	}
	if err := s.content.SaveFeedback(ctx, fb); err != nil {
		slog.Error("[Board] Failed to save feedback", "device_id", scope.id, "error", err)
		writeError(c, http.StatusInternalServerError, httperr.HttpInternalError, msgFeedbackFailed, nil)
		return
	}

	s.emit(ctx, v1.EventFeedbackSubmitted, s.pseudoID(ctx, scope), "", map[string]interface{}{metadataRatingKey: string(fb.Rating)})

	c.JSON(http.StatusCreated, fb)
}

// QuotaHandler reports the post and fetch decisions, plus the like decision
// when a post_id query parameter is given.
func (s *Service) QuotaHandler(c *gin.Context) {
	postID := strings.TrimSpace(c.Query("post_id"))

	scope, unlock := s.acquire(c)
	defer unlock()

	ctx := c.Request.Context()
	out := gin.H{
		string(quota.PolicyPost):  scope.enforcer.CheckPost(ctx),
		string(quota.PolicyFetch): scope.enforcer.CheckFetch(ctx),
	}
	if postID != "" {
		out[string(quota.PolicyLike)] = scope.enforcer.CheckLike(ctx, postID)
	}
	c.JSON(http.StatusOK, out)
}

// writeQuotaExceeded renders a rejected decision as 429 with Retry-After.
func writeQuotaExceeded(c *gin.Context, d quota.Decision) {
	if d.WaitSeconds > 0 {
		c.Header(headerRetryAfter, strconv.Itoa(d.WaitSeconds))
	}
	writeError(c, http.StatusTooManyRequests, httperr.HttpQuotaExceededError, d.Message(), d)
}

// writeQuotaUnrecorded reports a quota counter that could not be read for or
// written by an action. The action does not happen.
func writeQuotaUnrecorded(c *gin.Context) {
	writeError(c, http.StatusServiceUnavailable, httperr.HttpUnavailableError, msgQuotaUnrecorded, nil)
}

func writeError(c *gin.Context, status int, errorType, message string, details interface{}) {
	c.JSON(status, httperr.ErrorResponse{
		ErrorType: errorType,
		Message:   message,
		Details:   details,
	})
}
