// Package model defines the records exchanged with the events backend and
// the request payloads the client sends.
package model

import "time"

// User is the identity returned by the backend on login. The client never
// edits it in place; a new login replaces it wholesale.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city,omitempty"`
}

// Event is a single event as listed by the backend.
type Event struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Date is kept as the backend's ISO-like string so that date filters can
	// match it by prefix.
	Date      string `json:"date"`
	City      string `json:"city"`
	CreatorID string `json:"creator_id"`
}

// EventView is an event annotated with its participant count.
type EventView struct {
	Event
	ParticipantsCount int `json:"participants_count"`
}

// Registration links a user to an event they signed up for.
type Registration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Post is a feed entry.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Comment belongs to a single post.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	Body       string    `json:"body"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the payload for POST /auth/register.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	City     string `json:"city,omitempty"`
}

// AuthResponse is returned by both login and signup.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateEventRequest is the payload for POST /events.
type CreateEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
	City        string `json:"city"`
}

// CreatePostRequest is the payload for POST /posts.
type CreatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreateCommentRequest is the payload for POST /posts/{id}/comments.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// ErrorResponse is the backend's JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
