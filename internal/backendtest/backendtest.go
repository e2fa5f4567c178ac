// Package backendtest runs an in-memory events backend on an httptest
// server. Tests across the module point the API client at it.
package backendtest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

var (
	errNotFound          = errors.New("not found")
	errAlreadyRegistered = errors.New("already registered for this event")
)

type account struct {
	user     model.User
	password string
}

type fault struct {
	status int
	delay  time.Duration
}

// Server is a fake backend. All methods are safe for concurrent use.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	accounts      map[string]account // by email
	tokens        map[string]string  // token -> user id
	events        []model.Event
	registrations []model.Registration
	posts         []model.Post
	comments      []model.Comment
	faults        map[string]fault // "METHOD /path"
	hits          map[string]int
	now           func() time.Time
}

// New starts a fake backend. It is closed when the test ends.
func New(t interface{ Cleanup(func()) }) *Server {
	s := &Server{
		accounts: make(map[string]account),
		tokens:   make(map[string]string),
		faults:   make(map[string]fault),
		hits:     make(map[string]int),
		now:      func() time.Time { return time.Now().UTC() },
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(s.record)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.login)
		r.Post("/register", s.signup)
	})
	r.Route("/events", func(r chi.Router) {
		r.Get("/", s.listEvents)
		r.With(s.requireAuth).Post("/", s.createEvent)
		r.Get("/{id}", s.getEvent)
		r.Get("/{id}/registrations", s.listRegistrations)
		r.With(s.requireAuth).Post("/{id}/register", s.register)
	})
	r.With(s.requireAuth).Get("/users/me/registrations", s.myRegistrations)
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", s.listPosts)
		r.With(s.requireAuth).Post("/", s.createPost)
		r.Get("/{id}", s.getPost)
		r.Get("/{id}/comments", s.listComments)
		r.With(s.requireAuth).Post("/{id}/comments", s.createComment)
	})
	return r
}

// ─── Seeding and inspection ───────────────────────────────────────────────────

// AddUser creates an account and returns the user with its generated id.
func (s *Server) AddUser(name, email, password, city string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := model.User{ID: uuid.NewString(), Name: name, Email: email, City: city}
	s.accounts[strings.ToLower(email)] = account{user: u, password: password}
	return u
}

// IssueToken returns a valid bearer token for userID without a login call.
func (s *Server) IssueToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok := uuid.NewString()
	s.tokens[tok] = userID
	return tok
}

// AddEvent stores e, generating an id when it has none.
func (s *Server) AddEvent(e model.Event) model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.events = append(s.events, e)
	return e
}

// AddRegistration stores a registration of userID for eventID.
func (s *Server) AddRegistration(eventID, userID string) model.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg := model.Registration{ID: uuid.NewString(), EventID: eventID, UserID: userID, RegisteredAt: s.now()}
	s.registrations = append(s.registrations, reg)
	return reg
}

// AddPost stores p, generating an id when it has none.
func (s *Server) AddPost(p model.Post) model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.posts = append(s.posts, p)
	return p
}

// AddComment stores c, generating an id when it has none.
func (s *Server) AddComment(c model.Comment) model.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.comments = append(s.comments, c)
	return c
}

// Fail makes every request to method+path answer with status.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+path] = fault{status: status}
}

// Delay holds every request to method+path for d before serving it.
func (s *Server) Delay(method, path string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+path] = fault{delay: d}
}

// Hits returns how many requests method+path has received.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

// ─── Middleware ───────────────────────────────────────────────────────────────

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimSuffix(r.URL.Path, "/")
		if r.URL.Path == "/" {
			key = r.Method + " /"
		}
		s.mu.Lock()
		s.hits[key]++
		f, faulty := s.faults[key]
		s.mu.Unlock()

		if faulty {
			if f.delay > 0 {
				select {
				case <-time.After(f.delay):
				case <-r.Context().Done():
					return
				}
			}
			if f.status != 0 {
				writeError(w, f.status, http.StatusText(f.status))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		uid, known := s.tokens[tok]
		s.mu.Unlock()
		if !ok || !known {
			writeError(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), uid)))
	})
}

// sortedByCreated orders posts newest first, as the real backend does.
func sortedByCreated(posts []model.Post) []model.Post {
	out := append([]model.Post(nil), posts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
