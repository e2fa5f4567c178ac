package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
	"github.com/Shivanand-hulikatti/eventdesk/internal/service"
)

func init() {
	register(command{name: "events", args: "[-city c] [-date YYYY-MM-DD]", summary: "list events", run: runEvents})
	register(command{name: "event", args: "<event-id>", summary: "show an event, its participants and whether you joined", run: runEvent})
	register(command{name: "event-create", args: "-name n -date d -city c [-description text]", summary: "create an event", run: runEventCreate})
	register(command{name: "register", args: "<event-id>", summary: "register for an event", run: runRegister})
	register(command{name: "my-events", summary: "list the events you registered for", run: runMyEvents})
}

func runEvents(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	var f service.EventFilter
	fs.StringVar(&f.City, "city", "", "only events in this city (case-insensitive)")
	fs.StringVar(&f.Date, "date", "", "only events whose date starts with this, e.g. 2025-12-05")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	list, err := a.Pages.Events(ctx, f)
	if err != nil {
		return err
	}
	if a.JSON {
		return a.writeJSON(nonNil(list.Visible))
	}
	a.printEventViews(list.Visible)
	if len(list.Visible) != len(list.All) {
		fmt.Fprintf(a.Out, "(%d of %d events match)\n", len(list.Visible), len(list.All))
	}
	return nil
}

func runEvent(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	d, err := a.Pages.EventDetail(ctx, pos[0])
	if err != nil {
		return err
	}
	return a.printDetail(d)
}

func runRegister(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	d, err := a.Pages.EventDetail(ctx, pos[0])
	if err != nil {
		return err
	}
	d, err = a.Pages.Register(ctx, d)
	if err != nil {
		return err
	}
	if !a.JSON {
		fmt.Fprintf(a.Out, "registered for %s\n", d.Event.Name)
	}
	return a.printDetail(d)
}

func runMyEvents(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	page, err := a.Pages.MyEvents(ctx)
	if err != nil {
		return err
	}
	if a.JSON {
		return a.writeJSON(nonNil(page.Joined))
	}
	if len(page.Joined) == 0 {
		fmt.Fprintln(a.Out, "you have not registered for any events")
		return nil
	}
	a.printEvents(page.Joined)
	return nil
}

func runEventCreate(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	var req model.CreateEventRequest
	fs.StringVar(&req.Name, "name", "", "event name")
	fs.StringVar(&req.Description, "description", "", "event description")
	fs.StringVar(&req.Date, "date", "", "YYYY-MM-DD or RFC 3339 timestamp")
	fs.StringVar(&req.City, "city", "", "city the event takes place in")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	_, created, err := a.Pages.CreateEvent(ctx, service.EventList{}, req)
	if err != nil {
		return err
	}
	if a.JSON {
		return a.writeJSON(created)
	}
	fmt.Fprintf(a.Out, "created event %s (%s)\n", created.Name, created.ID)
	return nil
}

func (a *App) printEvents(events []model.Event) {
	if len(events) == 0 {
		fmt.Fprintln(a.Out, "no events")
		return
	}
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDATE\tCITY")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, truncate(e.Name, 40), e.Date, e.City)
	}
	_ = tw.Flush()
}

func (a *App) printEventViews(views []model.EventView) {
	if len(views) == 0 {
		fmt.Fprintln(a.Out, "no events")
		return
	}
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDATE\tCITY\tPARTICIPANTS")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", v.ID, truncate(v.Name, 40), v.Date, v.City, v.ParticipantsCount)
	}
	_ = tw.Flush()
}

type eventDetailJSON struct {
	model.EventView
	Registered    bool                 `json:"registered"`
	Registrations []model.Registration `json:"registrations"`
}

func (a *App) printDetail(d service.EventDetail) error {
	if a.JSON {
		return a.writeJSON(eventDetailJSON{
			EventView:     d.View(),
			Registered:    d.IsRegistered(),
			Registrations: nonNil(d.Registrations),
		})
	}
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", d.Event.Name)
	fmt.Fprintf(tw, "Date:\t%s\n", d.Event.Date)
	fmt.Fprintf(tw, "City:\t%s\n", d.Event.City)
	if d.Event.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", d.Event.Description)
	}
	fmt.Fprintf(tw, "Participants:\t%d\n", d.ParticipantsCount())
	fmt.Fprintf(tw, "Registered:\t%s\n", yesNo(d.IsRegistered()))
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// nonNil keeps JSON output an array rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
