package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

// ─── Auth ─────────────────────────────────────────────────────────────────────

// Login handles POST /auth/login.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.Do(ctx, "login", http.MethodPost, "/auth/login", req, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup handles POST /auth/register.
func (c *Client) Signup(ctx context.Context, req model.SignupRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.Do(ctx, "signup", http.MethodPost, "/auth/register", req, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ─── Events ───────────────────────────────────────────────────────────────────

// ListEvents handles GET /events.
func (c *Client) ListEvents(ctx context.Context, token string) ([]model.Event, error) {
	var out []model.Event
	if err := c.Do(ctx, "list_events", http.MethodGet, "/events", nil, token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEvent handles GET /events/{id}.
func (c *Client) GetEvent(ctx context.Context, token, id string) (*model.Event, error) {
	var out model.Event
	if err := c.Do(ctx, "get_event", http.MethodGet, "/events/"+url.PathEscape(id), nil, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEvent handles POST /events.
func (c *Client) CreateEvent(ctx context.Context, token string, req model.CreateEventRequest) (*model.Event, error) {
	var out model.Event
	if err := c.Do(ctx, "create_event", http.MethodPost, "/events", req, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRegistrations handles GET /events/{id}/registrations.
func (c *Client) ListRegistrations(ctx context.Context, token, eventID string) ([]model.Registration, error) {
	var out []model.Registration
	path := "/events/" + url.PathEscape(eventID) + "/registrations"
	if err := c.Do(ctx, "list_registrations", http.MethodGet, path, nil, token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterForEvent handles POST /events/{id}/register.
func (c *Client) RegisterForEvent(ctx context.Context, token, eventID string) (*model.Registration, error) {
	var out model.Registration
	path := "/events/" + url.PathEscape(eventID) + "/register"
	if err := c.Do(ctx, "register", http.MethodPost, path, nil, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyRegistrations handles GET /users/me/registrations.
func (c *Client) MyRegistrations(ctx context.Context, token string) ([]model.Registration, error) {
	var out []model.Registration
	if err := c.Do(ctx, "my_registrations", http.MethodGet, "/users/me/registrations", nil, token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ─── Feed ─────────────────────────────────────────────────────────────────────

// ListPosts handles GET /posts.
func (c *Client) ListPosts(ctx context.Context, token string) ([]model.Post, error) {
	var out []model.Post
	if err := c.Do(ctx, "list_posts", http.MethodGet, "/posts", nil, token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPost handles GET /posts/{id}.
func (c *Client) GetPost(ctx context.Context, token, id string) (*model.Post, error) {
	var out model.Post
	if err := c.Do(ctx, "get_post", http.MethodGet, "/posts/"+url.PathEscape(id), nil, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePost handles POST /posts.
func (c *Client) CreatePost(ctx context.Context, token string, req model.CreatePostRequest) (*model.Post, error) {
	var out model.Post
	if err := c.Do(ctx, "create_post", http.MethodPost, "/posts", req, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListComments handles GET /posts/{id}/comments.
func (c *Client) ListComments(ctx context.Context, token, postID string) ([]model.Comment, error) {
	var out []model.Comment
	path := "/posts/" + url.PathEscape(postID) + "/comments"
	if err := c.Do(ctx, "list_comments", http.MethodGet, path, nil, token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateComment handles POST /posts/{id}/comments.
func (c *Client) CreateComment(ctx context.Context, token, postID string, req model.CreateCommentRequest) (*model.Comment, error) {
	var out model.Comment
	path := "/posts/" + url.PathEscape(postID) + "/comments"
	if err := c.Do(ctx, "create_comment", http.MethodPost, path, req, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
