// Package session holds who is logged in and keeps that state in a
// persistent key-value store so it survives between invocations.
//
// The state transitions are plain functions over Session values; Store
// applies them and performs the matching storage writes.
package session

import (
	"encoding/json"
	"errors"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

// Persisted key names.
const (
	TokenKey = "token"
	UserKey  = "user"
)

var (
	// ErrInvalidAuth is returned when a token or user is missing.
	ErrInvalidAuth = errors.New("session: token and user with id are required")
	// ErrCorruptState is returned when the persisted user cannot be decoded.
	ErrCorruptState = errors.New("session: persisted user is corrupt")
)

// State is the coarse authentication state.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Session is the in-memory auth state. Token and User are either both set
// or both empty.
type Session struct {
	Token string
	User  *model.User
}

// State reports whether s holds credentials.
func (s Session) State() State {
	if s.Token != "" && s.User != nil {
		return Authenticated
	}
	return Unauthenticated
}

// Authenticate returns the session for a successful login.
func Authenticate(token string, user model.User) (Session, error) {
	if token == "" || user.ID == "" {
		return Session{}, ErrInvalidAuth
	}
	u := user
	return Session{Token: token, User: &u}, nil
}

// Cleared returns the empty session.
func Cleared() Session {
	return Session{}
}

// Restore rebuilds a session from its persisted form. A user payload that
// does not decode to a user with an id yields ErrCorruptState.
func Restore(token, rawUser string) (Session, error) {
	var u *model.User
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil || u == nil {
		return Session{}, ErrCorruptState
	}
	s, err := Authenticate(token, *u)
	if err != nil {
		return Session{}, ErrCorruptState
	}
	return s, nil
}

// encodeUser is the persisted form of a user.
func encodeUser(u model.User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
