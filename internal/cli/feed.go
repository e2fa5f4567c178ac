package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
	"github.com/Shivanand-hulikatti/eventdesk/internal/service"
)

func init() {
	register(command{name: "feed", summary: "list posts, newest first", run: runFeed})
	register(command{name: "post", args: "<post-id>", summary: "show a post with its comments", run: runPost})
	register(command{name: "post-create", args: "-title t -body text", summary: "publish a post", run: runPostCreate})
	register(command{name: "comment", args: "-body text <post-id>", summary: "comment on a post", run: runComment})
}

func runFeed(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	feed, err := a.Pages.Feed(ctx)
	if err != nil {
		return err
	}
	if a.JSON {
		return a.writeJSON(nonNil(feed.Posts))
	}
	if len(feed.Posts) == 0 {
		fmt.Fprintln(a.Out, "no posts")
		return nil
	}
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tPOSTED")
	for _, p := range feed.Posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, truncate(p.Title, 40), p.AuthorName, stamp(p.CreatedAt))
	}
	return tw.Flush()
}

func runPost(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	d, err := a.Pages.PostDetail(ctx, pos[0])
	if err != nil {
		return err
	}
	return a.printPost(d)
}

func runPostCreate(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	var req model.CreatePostRequest
	fs.StringVar(&req.Title, "title", "", "post title")
	fs.StringVar(&req.Body, "body", "", "post text")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	_, created, err := a.Pages.CreatePost(ctx, service.Feed{}, req)
	if err != nil {
		return err
	}
	if a.JSON {
		return a.writeJSON(created)
	}
	fmt.Fprintf(a.Out, "published %q (%s)\n", created.Title, created.ID)
	return nil
}

func runComment(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error {
	body := fs.String("body", "", "comment text")
	pos, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	d, _, err := a.Pages.CommentOn(ctx, pos[0], *body)
	if err != nil {
		return err
	}
	return a.printPost(d)
}

type postDetailJSON struct {
	model.Post
	Comments []model.Comment `json:"comments"`
}

func (a *App) printPost(d service.PostDetail) error {
	if a.JSON {
		return a.writeJSON(postDetailJSON{Post: d.Post, Comments: nonNil(d.Comments)})
	}
	fmt.Fprintf(a.Out, "%s\n", d.Post.Title)
	if d.Post.AuthorName != "" {
		fmt.Fprintf(a.Out, "by %s, %s\n", d.Post.AuthorName, stamp(d.Post.CreatedAt))
	}
	fmt.Fprintf(a.Out, "\n%s\n", d.Post.Body)
	fmt.Fprintf(a.Out, "\n%d comment(s)\n", len(d.Comments))
	for _, c := range d.Comments {
		fmt.Fprintf(a.Out, "  - %s: %s\n", c.AuthorName, c.Body)
	}
	return nil
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
