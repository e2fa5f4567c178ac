package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

func init() {
	register(command{name: "login", args: "-email address -password secret", summary: "log in and remember the session", run: runLogin})
	register(command{name: "signup", args: "-name n -email address -password secret [-city c]", summary: "create an account and log in", run: runSignup})
	register(command{name: "logout", summary: "forget the stored session", run: runLogout})
	register(command{name: "whoami", summary: "show the logged-in user", run: runWhoami})
}

func runLogin(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	u, err := a.Pages.Login(ctx, *email, *password)
	if err != nil && !Warning(err) {
		return err
	}
	if err != nil {
		fmt.Fprintf(a.Err, "warning: %v\n", err)
	}
	return a.printUser("logged in as", u)
}

func runSignup(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	var req model.SignupRequest
	fs.StringVar(&req.Name, "name", "", "display name")
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.Password, "password", "", "account password")
	fs.StringVar(&req.City, "city", "", "home city")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	u, err := a.Pages.Signup(ctx, req)
	if err != nil && !Warning(err) {
		return err
	}
	if err != nil {
		fmt.Fprintf(a.Err, "warning: %v\n", err)
	}
	return a.printUser("signed up as", u)
}

func runLogout(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if err := a.Pages.Logout(ctx); err != nil {
		return err
	}
	if a.JSON {
		return a.writeJSON(map[string]string{"status": "logged out"})
	}
	fmt.Fprintln(a.Out, "logged out")
	return nil
}

func runWhoami(_ context.Context, a *App, fs *flag.FlagSet, args []string) error {
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	u, err := a.Pages.Whoami()
	if err != nil {
		return err
	}
	return a.printUser("logged in as", u)
}

func (a *App) printUser(prefix string, u model.User) error {
	if a.JSON {
		return a.writeJSON(u)
	}
	fmt.Fprintf(a.Out, "%s %s <%s>", prefix, u.Name, u.Email)
	if u.City != "" {
		fmt.Fprintf(a.Out, " (%s)", u.City)
	}
	fmt.Fprintln(a.Out)
	return nil
}
