// Package reconcile derives page-ready values from collections fetched
// independently from the backend. Every function is pure: inputs are
// treated as immutable snapshots and results are freshly allocated.
package reconcile

import (
	"strings"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

// IsRegistered reports whether any registration belongs to userID.
// An empty userID is never registered.
func IsRegistered(regs []model.Registration, userID string) bool {
	if userID == "" {
		return false
	}
	for _, r := range regs {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// ParticipantsCount returns the number of registrations in an
// event-scoped collection.
func ParticipantsCount(regs []model.Registration) int {
	return len(regs)
}

// RegistrationsForEvent narrows a flat registration collection to one event.
func RegistrationsForEvent(regs []model.Registration, eventID string) []model.Registration {
	out := make([]model.Registration, 0, len(regs))
	for _, r := range regs {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out
}

// JoinedEvents keeps the events referenced by at least one registration,
// in the order they appear in events.
func JoinedEvents(events []model.Event, regs []model.Registration) []model.Event {
	joined := make(map[string]struct{}, len(regs))
	for _, r := range regs {
		joined[r.EventID] = struct{}{}
	}

	out := make([]model.Event, 0, len(joined))
	for _, e := range events {
		if _, ok := joined[e.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// FilterEvents keeps events whose city equals city (case-insensitive) and
// whose date starts with date. An empty filter matches everything.
//
// The date comparison is a literal prefix match: "2025-12-05" selects
// "2025-12-05T18:00:00Z" but not the same instant written with an offset.
func FilterEvents(events []model.Event, city, date string) []model.Event {
	city = strings.TrimSpace(city)
	date = strings.TrimSpace(date)

	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if city != "" && !strings.EqualFold(e.City, city) {
			continue
		}
		if date != "" && !strings.HasPrefix(e.Date, date) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// AnnotateEvents pairs each event with the number of registrations for it.
func AnnotateEvents(events []model.Event, regs []model.Registration) []model.EventView {
	counts := make(map[string]int, len(events))
	for _, r := range regs {
		counts[r.EventID]++
	}

	out := make([]model.EventView, len(events))
	for i, e := range events {
		out[i] = model.EventView{Event: e, ParticipantsCount: counts[e.ID]}
	}
	return out
}

// Prepend returns a new slice with item in front of items. Used for events
// and posts, which display newest first.
func Prepend[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

// Append returns a new slice with item after items. Used for comments and
// registrations, which display in chronological order.
func Append[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}
