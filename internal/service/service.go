// Package service implements the pages of the client: validation before any
// call, orchestration of the API client, and the derived view state each
// page shows.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
	"github.com/Shivanand-hulikatti/eventdesk/internal/session"
)

// API is the subset of the backend the pages call. *apiclient.Client
// satisfies it.
type API interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Signup(ctx context.Context, req model.SignupRequest) (*model.AuthResponse, error)

	ListEvents(ctx context.Context, token string) ([]model.Event, error)
	GetEvent(ctx context.Context, token, id string) (*model.Event, error)
	CreateEvent(ctx context.Context, token string, req model.CreateEventRequest) (*model.Event, error)
	ListRegistrations(ctx context.Context, token, eventID string) ([]model.Registration, error)
	RegisterForEvent(ctx context.Context, token, eventID string) (*model.Registration, error)
	MyRegistrations(ctx context.Context, token string) ([]model.Registration, error)

	ListPosts(ctx context.Context, token string) ([]model.Post, error)
	GetPost(ctx context.Context, token, id string) (*model.Post, error)
	CreatePost(ctx context.Context, token string, req model.CreatePostRequest) (*model.Post, error)
	ListComments(ctx context.Context, token, postID string) ([]model.Comment, error)
	CreateComment(ctx context.Context, token, postID string, req model.CreateCommentRequest) (*model.Comment, error)
}

// Pages orchestrates the API client and the session store.
type Pages struct {
	api     API
	session *session.Store
}

// New constructs Pages with its dependencies.
func New(api API, store *session.Store) *Pages {
	return &Pages{api: api, session: store}
}

// Session exposes the store the pages read credentials from.
func (p *Pages) Session() *session.Store {
	return p.session
}

// Start hydrates the session from storage. It is called once before any
// other page. A corrupt persisted session is cleared and reported as
// KindCorruptState; the caller continues logged out.
func (p *Pages) Start(ctx context.Context) (session.HydrateResult, error) {
	res, err := p.session.Hydrate(ctx)
	if err != nil {
		return res, &Error{Kind: KindInternal, Op: "restore session", Err: err}
	}
	if res == session.HydrateCorrupt {
		return res, &Error{Kind: KindCorruptState, Op: "restore session", Err: session.ErrCorruptState}
	}
	return res, nil
}

// requireSession returns the current credentials or a KindUnauthenticated
// error. No call is made without them.
func (p *Pages) requireSession(op string) (string, model.User, error) {
	cur := p.session.Current()
	if cur.State() != session.Authenticated {
		return "", model.User{}, &Error{Kind: KindUnauthenticated, Op: op, Err: errNoSession}
	}
	return cur.Token, *cur.User, nil
}

// ─── Auth ─────────────────────────────────────────────────────────────────────

// Login validates the credentials, calls the backend and stores the session.
// A failure to persist the session is returned as an error after the
// in-memory session has been set; errors.Is(err, session.ErrPersist) tells
// the caller it is only a warning.
func (p *Pages) Login(ctx context.Context, email, password string) (model.User, error) {
	const op = "login"
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return model.User{}, invalid(op, "email and password are required")
	}
	if !isValidEmail(email) {
		return model.User{}, invalid(op, "email is not a valid email address")
	}

	resp, err := p.api.Login(ctx, model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return model.User{}, classify(op, err)
	}
	return p.adopt(ctx, op, resp)
}

// Signup creates an account and logs it in.
func (p *Pages) Signup(ctx context.Context, req model.SignupRequest) (model.User, error) {
	const op = "signup"
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.City = strings.TrimSpace(req.City)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return model.User{}, invalid(op, "name, email and password are required")
	}
	if !isValidEmail(req.Email) {
		return model.User{}, invalid(op, "email is not a valid email address")
	}

	resp, err := p.api.Signup(ctx, req)
	if err != nil {
		return model.User{}, classify(op, err)
	}
	return p.adopt(ctx, op, resp)
}

// adopt stores the session from resp. The user is returned with a
// persistence warning but never with a hard failure.
func (p *Pages) adopt(ctx context.Context, op string, resp *model.AuthResponse) (model.User, error) {
	err := p.session.SetAuth(ctx, resp.Token, resp.User)
	switch {
	case err == nil:
		return resp.User, nil
	case errors.Is(err, session.ErrPersist):
		return resp.User, &Error{Kind: KindInternal, Op: op, Err: err}
	default:
		// The backend answered without a usable token or user.
		return model.User{}, &Error{Kind: KindNetwork, Op: op, Err: err}
	}
}

// Logout forgets the session locally. The token is opaque to the client,
// so there is nothing to revoke.
func (p *Pages) Logout(ctx context.Context) error {
	if err := p.session.Logout(ctx); err != nil {
		return &Error{Kind: KindInternal, Op: "logout", Err: err}
	}
	return nil
}

// Whoami returns the logged-in user.
func (p *Pages) Whoami() (model.User, error) {
	_, u, err := p.requireSession("whoami")
	return u, err
}

// isValidEmail does a basic structural check.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
