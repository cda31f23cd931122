// Package client is a typed HTTP client for the comment service.
//
// Every call picks the authenticated or the public endpoint depending on
// whether a bearer token is configured. Non-2xx responses are mapped back to
// domain errors; transport failures wrap domain.ErrUnavailable.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/bizdesk-backend/internal/config"
	"github.com/heartmarshall/bizdesk-backend/internal/domain"
	"github.com/heartmarshall/bizdesk-backend/pkg/commentapi"
)

// maxErrorBody caps how much of an error response is read into the error.
const maxErrorBody = 4 << 10

// Client talks to the comment service over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client from ClientConfig.
func New(cfg config.ClientConfig, logger *slog.Logger) *Client {
	return NewWithHTTPClient(cfg.BaseURL, cfg.Token, &http.Client{Timeout: cfg.Timeout}, logger)
}

// NewWithHTTPClient creates a Client with a caller-supplied http.Client (for testing).
func NewWithHTTPClient(baseURL, token string, hc *http.Client, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: hc,
		log:        logger.With("adapter", "comment_client"),
	}
}

// Authenticated reports whether calls go to the bearer-protected endpoints.
func (c *Client) Authenticated() bool { return c.token != "" }

// NewComment is the payload of a comment or reply submission.
type NewComment struct {
	Entity     domain.EntityRef
	ParentID   *uuid.UUID
	TimelineID *string
	AuthorName string
	Content    string
}

// ListComments fetches the full comment tree of an entity.
func (c *Client) ListComments(ctx context.Context, ref domain.EntityRef) ([]*domain.Comment, error) {
	q := url.Values{}
	q.Set("entity_type", ref.Type)
	q.Set("entity_id", ref.ID)

	var resp commentapi.CommentList
	path := c.pick(commentapi.PathComments, commentapi.PathPublicComments)
	if err := c.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	tree := make([]*domain.Comment, len(resp.Comments))
	for i, cm := range resp.Comments {
		tree[i] = cm.ToDomain()
	}
	return tree, nil
}

// CreateComment submits a root comment or, when ParentID is set, a reply.
func (c *Client) CreateComment(ctx context.Context, in NewComment) (*domain.Comment, error) {
	body := commentapi.CreateCommentRequest{
		Content:    in.Content,
		EntityType: in.Entity.Type,
		EntityID:   in.Entity.ID,
		TimelineID: in.TimelineID,
		ParentID:   in.ParentID,
		AuthorName: in.AuthorName,
	}

	var resp commentapi.Comment
	path := c.pick(commentapi.PathComments, commentapi.PathPublicComments)
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.ToDomain(), nil
}

// AddReaction records one reaction of the given kind on a comment.
func (c *Client) AddReaction(ctx context.Context, commentID uuid.UUID, kind domain.ReactionKind) error {
	emotionID, ok := kind.EmotionTypeID()
	if !ok {
		return domain.NewValidationError("emotion_type_id", "unknown reaction kind "+kind.String())
	}

	body := commentapi.CreateReactionRequest{
		EntityType:    domain.ReactionEntityComment,
		EntityID:      commentID.String(),
		EmotionTypeID: emotionID,
	}
	path := c.pick(commentapi.PathReactions, commentapi.PathPublicReactions)
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// CommentCounts returns per-entity comment counts in the order of ids.
// Requires a token.
func (c *Client) CommentCounts(ctx context.Context, entityType string, ids []string) ([]domain.CommentCount, error) {
	if !c.Authenticated() {
		return nil, domain.ErrUnauthorized
	}

	q := url.Values{}
	q.Set("entity_type", entityType)
	for _, id := range ids {
		q.Add("entity_id", id)
	}

	var resp commentapi.CommentCounts
	if err := c.do(ctx, http.MethodGet, commentapi.PathCommentCounts+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.CommentCount, len(resp.Counts))
	for i, cc := range resp.Counts {
		out[i] = domain.CommentCount{
			Entity: domain.EntityRef{Type: cc.EntityType, ID: cc.EntityID},
			Count:  cc.Count,
		}
	}
	return out, nil
}

func (c *Client) pick(private, public string) string {
	if c.Authenticated() {
		return private
	}
	return public
}

// do sends a JSON request and decodes a JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.DebugContext(ctx, "comment api request", slog.String("method", method), slog.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "comment api request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("client: %s %s: %w: %w", method, path, domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w: %w", domain.ErrUnavailable, err)
	}
	return nil
}

// statusError maps an error response to the matching domain error.
func statusError(resp *http.Response) error {
	msg := http.StatusText(resp.StatusCode)
	var apiErr commentapi.Error
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); err == nil {
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		sentinel = domain.ErrValidation
	case http.StatusUnauthorized:
		sentinel = domain.ErrUnauthorized
	case http.StatusForbidden:
		sentinel = domain.ErrForbidden
	case http.StatusNotFound:
		sentinel = domain.ErrNotFound
	case http.StatusConflict:
		sentinel = domain.ErrConflict
	default:
		sentinel = domain.ErrUnavailable
	}
	return &StatusError{Code: resp.StatusCode, Message: msg, err: sentinel}
}

// StatusError is returned for non-2xx responses. It unwraps to the domain
// sentinel matching the status code.
type StatusError struct {
	Code    int
	Message string
	err     error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: status %d: %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return e.err }

// IsUnavailable reports whether err is a transport or server-side failure
// rather than a rejection of the request itself.
func IsUnavailable(err error) bool {
	return errors.Is(err, domain.ErrUnavailable)
}
