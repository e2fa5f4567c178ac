package backendtest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func withUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

// ─── Auth ─────────────────────────────────────────────────────────────────────

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(strings.TrimSpace(req.Email))]
	s.mu.Unlock()
	if !ok || acc.password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	writeJSON(w, http.StatusOK, model.AuthResponse{Token: s.IssueToken(acc.user.ID), User: acc.user})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	s.mu.Lock()
	_, taken := s.accounts[email]
	s.mu.Unlock()
	if taken {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	u := s.AddUser(req.Name, email, req.Password, req.City)
	writeJSON(w, http.StatusCreated, model.AuthResponse{Token: s.IssueToken(u.ID), User: u})
}

// ─── Events ───────────────────────────────────────────────────────────────────

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	events := append([]model.Event{}, s.events...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) findEvent(id string) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Event{}, errNotFound
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	e, err := s.findEvent(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "event name is required")
		return
	}

	e := s.AddEvent(model.Event{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		City:        req.City,
		CreatorID:   userID(r),
	})
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) listRegistrations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.findEvent(id); err != nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	s.mu.Lock()
	regs := []model.Registration{}
	for _, reg := range s.registrations {
		if reg.EventID == id {
			regs = append(regs, reg)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, regs)
}

func (s *Server) book(eventID, uid string) (model.Registration, error) {
	if _, err := s.findEvent(eventID); err != nil {
		return model.Registration{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, reg := range s.registrations {
		if reg.EventID == eventID && reg.UserID == uid {
			return model.Registration{}, errAlreadyRegistered
		}
	}
	reg := model.Registration{ID: uuid.NewString(), EventID: eventID, UserID: uid, RegisteredAt: s.now()}
	s.registrations = append(s.registrations, reg)
	return reg, nil
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	reg, err := s.book(chi.URLParam(r, "id"), userID(r))
	switch err {
	case nil:
		writeJSON(w, http.StatusCreated, reg)
	case errNotFound:
		writeError(w, http.StatusNotFound, "event not found")
	case errAlreadyRegistered:
		writeError(w, http.StatusConflict, "you are already registered for this event")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) myRegistrations(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	s.mu.Lock()
	regs := []model.Registration{}
	for _, reg := range s.registrations {
		if reg.UserID == uid {
			regs = append(regs, reg)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, regs)
}

// ─── Feed ─────────────────────────────────────────────────────────────────────

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	posts := sortedByCreated(s.posts)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) findPost(id string) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Post{}, errNotFound
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	p, err := s.findPost(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) author(uid string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.ID == uid {
			return acc.user.Name
		}
	}
	return ""
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	uid := userID(r)
	p := s.AddPost(model.Post{Title: req.Title, Body: req.Body, AuthorID: uid, AuthorName: s.author(uid)})
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.findPost(id); err != nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	s.mu.Lock()
	comments := []model.Comment{}
	for _, c := range s.comments {
		if c.PostID == id {
			comments = append(comments, c)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.findPost(id); err != nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	var req model.CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	uid := userID(r)
	c := s.AddComment(model.Comment{PostID: id, Body: req.Body, AuthorID: uid, AuthorName: s.author(uid)})
	writeJSON(w, http.StatusCreated, c)
}
