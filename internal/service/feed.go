package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
	"github.com/Shivanand-hulikatti/eventdesk/internal/reconcile"
)

// Feed is the list of posts, newest first.
type Feed struct {
	Posts []model.Post
}

// PostDetail is one post with its comments in chronological order.
type PostDetail struct {
	Post     model.Post
	Comments []model.Comment
}

// Feed loads the posts.
func (p *Pages) Feed(ctx context.Context) (Feed, error) {
	const op = "load feed"
	token, _, err := p.requireSession(op)
	if err != nil {
		return Feed{}, err
	}
	posts, err := p.api.ListPosts(ctx, token)
	if err != nil {
		return Feed{}, classify(op, err)
	}
	return Feed{Posts: posts}, nil
}

// PostDetail fetches a post and its comments concurrently; both must
// succeed.
func (p *Pages) PostDetail(ctx context.Context, id string) (PostDetail, error) {
	const op = "load post"
	token, _, err := p.requireSession(op)
	if err != nil {
		return PostDetail{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return PostDetail{}, invalid(op, "post id is required")
	}

	var (
		post     *model.Post
		comments []model.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		post, err = p.api.GetPost(gctx, token, id)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = p.api.ListComments(gctx, token, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return PostDetail{}, classify(op, err)
	}
	return PostDetail{Post: *post, Comments: comments}, nil
}

// CreatePost publishes a post and returns f with it in front.
func (p *Pages) CreatePost(ctx context.Context, f Feed, req model.CreatePostRequest) (Feed, model.Post, error) {
	const op = "create post"
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		return f, model.Post{}, invalid(op, "title and body are required")
	}
	token, _, err := p.requireSession(op)
	if err != nil {
		return f, model.Post{}, err
	}

	created, err := p.api.CreatePost(ctx, token, req)
	if err != nil {
		return f, model.Post{}, classify(op, err)
	}
	return Feed{Posts: reconcile.Prepend(f.Posts, *created)}, *created, nil
}

// CommentOn loads a post and comments on it. The body is checked before
// anything is fetched.
func (p *Pages) CommentOn(ctx context.Context, postID, body string) (PostDetail, model.Comment, error) {
	if _, err := commentBody(body); err != nil {
		return PostDetail{}, model.Comment{}, err
	}
	d, err := p.PostDetail(ctx, postID)
	if err != nil {
		return PostDetail{}, model.Comment{}, err
	}
	return p.AddComment(ctx, d, body)
}

func commentBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", invalid("add comment", "comment body is required")
	}
	return body, nil
}

// AddComment posts a comment on d's post and returns d with it appended.
func (p *Pages) AddComment(ctx context.Context, d PostDetail, body string) (PostDetail, model.Comment, error) {
	const op = "add comment"
	body, err := commentBody(body)
	if err != nil {
		return d, model.Comment{}, err
	}
	if d.Post.ID == "" {
		return d, model.Comment{}, invalid(op, "post id is required")
	}
	token, _, err := p.requireSession(op)
	if err != nil {
		return d, model.Comment{}, err
	}

	created, err := p.api.CreateComment(ctx, token, d.Post.ID, model.CreateCommentRequest{Body: body})
	if err != nil {
		return d, model.Comment{}, classify(op, err)
	}
	d.Comments = reconcile.Append(d.Comments, *created)
	return d, *created, nil
}
