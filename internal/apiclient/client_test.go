package apiclient

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/eventdesk/internal/backendtest"
	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

func newClient(t *testing.T, url string, opts Options) *Client {
	t.Helper()
	c, err := New(url, opts)
	require.NoError(t, err)
	return c
}

func TestDo_SendsHeadersAndDecodes(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"E1","name":"Meetup"}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL+"/", Options{})
	var e model.Event
	require.NoError(t, c.Do(context.Background(), "get_event", http.MethodPost, "/events", map[string]string{"a": "b"}, "tok", &e))

	assert.Equal(t, "E1", e.ID)
	assert.Equal(t, "/events", got.URL.Path)
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	_, err := uuid.Parse(got.Header.Get("X-Request-ID"))
	assert.NoError(t, err, "request id should be a uuid")
}

func TestDo_NoTokenNoAuthorization(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var out model.Event
	require.NoError(t, newClient(t, srv.URL, Options{}).Do(context.Background(), "x", http.MethodGet, "/", nil, "", &out))
	assert.Empty(t, auth)
}

func TestDo_ErrorStatusCarriesCodeAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"you are already registered for this event"}`))
	}))
	defer srv.Close()

	err := newClient(t, srv.URL, Options{}).Do(context.Background(), "register", http.MethodPost, "/events/1/register", nil, "t", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "you are already registered for this event", apiErr.Message)
	assert.Contains(t, apiErr.Body, "already registered")
	assert.Equal(t, http.StatusConflict, StatusCode(err))
	assert.Contains(t, err.Error(), "register: api: status 409")
}

func TestDo_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newClient(t, srv.URL, Options{}).Do(context.Background(), "x", http.MethodGet, "/", nil, "", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Empty(t, apiErr.Message)
	assert.Contains(t, apiErr.Error(), "upstream exploded")
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := newClient(t, url, Options{Timeout: time.Second}).Do(context.Background(), "x", http.MethodGet, "/", nil, "", nil)
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	err := newClient(t, srv.URL, Options{}).Do(ctx, "x", http.MethodGet, "/", nil, "", nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDo_MetricsAndLogging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	var buf bytes.Buffer
	c := newClient(t, srv.URL, Options{Registerer: reg, Logger: log.New(&buf, "", 0)})
	ctx := context.Background()

	var out []model.Event
	require.NoError(t, c.Do(ctx, "list_events", http.MethodGet, "/events", nil, "", &out))
	require.NoError(t, c.Do(ctx, "list_events", http.MethodGet, "/events", nil, "", &out))
	require.Error(t, c.Do(ctx, "get_event", http.MethodGet, "/missing", nil, "", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.metrics.requests.WithLabelValues("list_events", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.requests.WithLabelValues("get_event", "404")))
	assert.Contains(t, buf.String(), "GET /missing -> 404")

	// A second client on the same registry shares the collectors.
	c2 := newClient(t, srv.URL, Options{Registerer: reg})
	require.NoError(t, c2.Do(ctx, "list_events", http.MethodGet, "/events", nil, "", &out))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.metrics.requests.WithLabelValues("list_events", "200")))
}

func TestEndpoints_AgainstFakeBackend(t *testing.T) {
	be := backendtest.New(t)
	alice := be.AddUser("Alice", "alice@example.com", "secret", "Cali")
	ev := be.AddEvent(model.Event{Name: "Go meetup", City: "Cali", Date: "2025-12-05T18:00:00Z"})
	post := be.AddPost(model.Post{Title: "hello", Body: "first", CreatedAt: time.Now().Add(-time.Hour)})

	c := newClient(t, be.URL, Options{})
	ctx := context.Background()

	auth, err := c.Login(ctx, model.LoginRequest{Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, alice, auth.User)
	require.NotEmpty(t, auth.Token)

	_, err = c.Login(ctx, model.LoginRequest{Email: "alice@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))

	events, err := c.ListEvents(ctx, auth.Token)
	require.NoError(t, err)
	require.Len(t, events, 1)

	got, err := c.GetEvent(ctx, auth.Token, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, ev, *got)

	_, err = c.GetEvent(ctx, auth.Token, "nope")
	assert.Equal(t, http.StatusNotFound, StatusCode(err))

	reg, err := c.RegisterForEvent(ctx, auth.Token, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, reg.UserID)

	_, err = c.RegisterForEvent(ctx, auth.Token, ev.ID)
	assert.Equal(t, http.StatusConflict, StatusCode(err))

	_, err = c.RegisterForEvent(ctx, "", ev.ID)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))

	regs, err := c.ListRegistrations(ctx, auth.Token, ev.ID)
	require.NoError(t, err)
	assert.Len(t, regs, 1)

	mine, err := c.MyRegistrations(ctx, auth.Token)
	require.NoError(t, err)
	assert.Equal(t, []model.Registration{*reg}, mine)

	created, err := c.CreateEvent(ctx, auth.Token, model.CreateEventRequest{Name: "Workshop", Date: "2026-01-10", City: "Cali"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, created.CreatorID)

	p, err := c.GetPost(ctx, auth.Token, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Title)

	cm, err := c.CreateComment(ctx, auth.Token, post.ID, model.CreateCommentRequest{Body: "nice"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", cm.AuthorName)

	comments, err := c.ListComments(ctx, auth.Token, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	np, err := c.CreatePost(ctx, auth.Token, model.CreatePostRequest{Title: "second", Body: "b"})
	require.NoError(t, err)
	posts, err := c.ListPosts(ctx, auth.Token)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, np.ID, posts[0].ID)

	signed, err := c.Signup(ctx, model.SignupRequest{Name: "Bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Bob", signed.User.Name)
}
