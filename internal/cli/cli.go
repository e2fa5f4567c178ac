// Package cli maps command lines onto pages and prints their results.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Shivanand-hulikatti/eventdesk/internal/apiclient"
	"github.com/Shivanand-hulikatti/eventdesk/internal/service"
	"github.com/Shivanand-hulikatti/eventdesk/internal/session"
)

// ErrUsage is returned for unknown commands and bad flags.
var ErrUsage = errors.New("usage")

// App runs one command against Pages.
type App struct {
	Pages *service.Pages
	Out   io.Writer
	Err   io.Writer
	// JSON switches output from tables to JSON documents.
	JSON bool
}

type command struct {
	name    string
	args    string
	summary string
	run     func(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error
}

var commands = map[string]command{}

func register(c command) {
	commands[c.name] = c
}

// Run executes args[0] with the remaining arguments.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.Usage()
		return ErrUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(a.Err, "unknown command %q\n\n", args[0])
		a.Usage()
		return ErrUsage
	}

	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(a.Err)
	fs.Usage = func() {
		fmt.Fprintf(a.Err, "usage: eventdesk %s %s\n", cmd.name, cmd.args)
		fs.PrintDefaults()
	}
	return cmd.run(ctx, a, fs, args[1:])
}

// Usage prints the command list.
func (a *App) Usage() {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)

	fmt.Fprintln(a.Err, "usage: eventdesk [-config path] [-json] [-v] [-metrics-file path] <command> [flags]")
	fmt.Fprintln(a.Err)
	fmt.Fprintln(a.Err, "commands:")
	for _, n := range names {
		fmt.Fprintf(a.Err, "  %-13s %s\n", n, commands[n].summary)
	}
}

// parse parses flags and checks the positional argument count.
func parse(fs *flag.FlagSet, args []string, positional int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, ErrUsage
	}
	if fs.NArg() != positional {
		fs.Usage()
		return nil, ErrUsage
	}
	return fs.Args(), nil
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Message turns a page error into the single line shown to the user.
func Message(err error) string {
	var e *service.Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Kind {
	case service.KindValidation:
		return fmt.Sprintf("%s: %s", e.Op, detail(e.Err))
	case service.KindUnauthenticated:
		if e.Op == "login" {
			return "login: invalid email or password"
		}
		return fmt.Sprintf("%s: not logged in or session expired; run 'eventdesk login'", e.Op)
	case service.KindNotFound:
		return fmt.Sprintf("%s: not found", e.Op)
	case service.KindConflict:
		return fmt.Sprintf("%s: %s", e.Op, detail(e.Err))
	case service.KindCorruptState:
		return "stored session was unreadable and has been cleared; please log in again"
	case service.KindNetwork:
		return fmt.Sprintf("could not %s: %s", e.Op, detail(e.Err))
	default:
		return e.Error()
	}
}

// detail prefers the backend's own error text.
func detail(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return apiErr.Error()
	}
	return err.Error()
}

// Warning reports whether err still let the command succeed: a session
// that could not be persisted, or a corrupt one that was cleared.
func Warning(err error) bool {
	return errors.Is(err, session.ErrPersist) || service.KindOf(err) == service.KindCorruptState
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
