package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
	"github.com/Shivanand-hulikatti/eventdesk/internal/reconcile"
)

// EventFilter narrows the events list. Empty fields match everything.
type EventFilter struct {
	City string
	Date string
}

// EventList is the events page: everything fetched, the registrations of
// those events, and the filtered view annotated with participant counts.
type EventList struct {
	All           []model.Event
	Registrations []model.Registration
	Filter        EventFilter
	Visible       []model.EventView
}

// Refilter returns the list with a new filter applied to the same events.
func (l EventList) Refilter(f EventFilter) EventList {
	l.Filter = f
	l.Visible = reconcile.AnnotateEvents(reconcile.FilterEvents(l.All, f.City, f.Date), l.Registrations)
	return l
}

// registrationFetchLimit caps concurrent per-event registration requests.
const registrationFetchLimit = 8

// EventDetail is one event with its registrations, as seen by ViewerID.
type EventDetail struct {
	Event         model.Event
	Registrations []model.Registration
	ViewerID      string
}

// ParticipantsCount is the number of registrations for the event.
func (d EventDetail) ParticipantsCount() int {
	return reconcile.ParticipantsCount(d.Registrations)
}

// IsRegistered reports whether the viewer is among the registrations.
func (d EventDetail) IsRegistered() bool {
	return reconcile.IsRegistered(d.Registrations, d.ViewerID)
}

// View returns the event annotated with its participant count.
func (d EventDetail) View() model.EventView {
	return model.EventView{Event: d.Event, ParticipantsCount: d.ParticipantsCount()}
}

// MyEvents is the page listing the events the user joined.
type MyEvents struct {
	Registrations []model.Registration
	Joined        []model.Event
}

// Events loads every event, then the registrations of each event
// concurrently, and applies f. Any failed fetch fails the page.
func (p *Pages) Events(ctx context.Context, f EventFilter) (EventList, error) {
	const op = "load events"
	token, _, err := p.requireSession(op)
	if err != nil {
		return EventList{}, err
	}

	events, err := p.api.ListEvents(ctx, token)
	if err != nil {
		return EventList{}, classify(op, err)
	}

	perEvent := make([][]model.Registration, len(events))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(registrationFetchLimit)
	for i, e := range events {
		i, e := i, e
		g.Go(func() error {
			regs, err := p.api.ListRegistrations(gctx, token, e.ID)
			if err != nil {
				return err
			}
			perEvent[i] = reconcile.RegistrationsForEvent(regs, e.ID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return EventList{}, classify(op, err)
	}

	var regs []model.Registration
	for _, r := range perEvent {
		regs = append(regs, r...)
	}
	return EventList{All: events, Registrations: regs}.Refilter(f), nil
}

// EventDetail fetches the event and its registrations concurrently. Both
// must succeed; on failure neither is returned and the other request is
// cancelled.
func (p *Pages) EventDetail(ctx context.Context, id string) (EventDetail, error) {
	const op = "load event"
	token, user, err := p.requireSession(op)
	if err != nil {
		return EventDetail{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return EventDetail{}, invalid(op, "event id is required")
	}

	var (
		event *model.Event
		regs  []model.Registration
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		event, err = p.api.GetEvent(gctx, token, id)
		return err
	})
	g.Go(func() error {
		var err error
		regs, err = p.api.ListRegistrations(gctx, token, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return EventDetail{}, classify(op, err)
	}

	return EventDetail{Event: *event, Registrations: regs, ViewerID: user.ID}, nil
}

// Register signs the viewer up for d's event and returns d with the new
// registration appended, without refetching.
func (p *Pages) Register(ctx context.Context, d EventDetail) (EventDetail, error) {
	const op = "register"
	token, user, err := p.requireSession(op)
	if err != nil {
		return d, err
	}
	if d.Event.ID == "" {
		return d, invalid(op, "event id is required")
	}
	d.ViewerID = user.ID
	if d.IsRegistered() {
		return d, &Error{Kind: KindConflict, Op: op, Err: errAlreadyRegistered}
	}

	reg, err := p.api.RegisterForEvent(ctx, token, d.Event.ID)
	if err != nil {
		return d, classify(op, err)
	}
	d.Registrations = reconcile.Append(d.Registrations, *reg)
	return d, nil
}

// MyEvents fetches the user's registrations and all events concurrently and
// keeps the events the user joined.
func (p *Pages) MyEvents(ctx context.Context) (MyEvents, error) {
	const op = "load my events"
	token, _, err := p.requireSession(op)
	if err != nil {
		return MyEvents{}, err
	}

	var (
		regs   []model.Registration
		events []model.Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		regs, err = p.api.MyRegistrations(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = p.api.ListEvents(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return MyEvents{}, classify(op, err)
	}

	return MyEvents{Registrations: regs, Joined: reconcile.JoinedEvents(events, regs)}, nil
}

// CreateEvent validates req, creates the event and returns l with the new
// event in front.
func (p *Pages) CreateEvent(ctx context.Context, l EventList, req model.CreateEventRequest) (EventList, model.Event, error) {
	const op = "create event"
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.Date = strings.TrimSpace(req.Date)
	req.City = strings.TrimSpace(req.City)
	if req.Name == "" || req.Date == "" || req.City == "" {
		return l, model.Event{}, invalid(op, "name, date and city are required")
	}
	if !isValidDate(req.Date) {
		return l, model.Event{}, invalid(op, "date must be YYYY-MM-DD or RFC 3339, got %q", req.Date)
	}
	token, _, err := p.requireSession(op)
	if err != nil {
		return l, model.Event{}, err
	}

	created, err := p.api.CreateEvent(ctx, token, req)
	if err != nil {
		return l, model.Event{}, classify(op, err)
	}
	l.All = reconcile.Prepend(l.All, *created)
	return l.Refilter(l.Filter), *created, nil
}

func isValidDate(s string) bool {
	if _, err := time.Parse(time.DateOnly, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
