package workflow

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/societyhub/backend/internal/assets"
	"github.com/societyhub/backend/internal/backend"
)

type CommunityAPI interface {
	Blogs(ctx context.Context, societyCode string) ([]backend.Blog, error)
	BlogAuthor(ctx context.Context, userID string) (string, error)
	AddBlog(ctx context.Context, draft backend.BlogDraft) (*backend.Blog, error)
	AddAdminBlog(ctx context.Context, draft backend.BlogDraft) (*backend.Blog, error)
	UpdateBlog(ctx context.Context, id string, draft backend.BlogDraft) (*backend.Blog, error)
	DeleteBlog(ctx context.Context, id string) error
}

const SocietyAdmin = "Society Admin"

type BlogItem struct {
	backend.Blog
	AuthorName string
}

// BlogPost is the blog form. Image is optional.
type BlogPost struct {
	Title   string
	Content string
	Image   *assets.File
}

// CommunityBoard lists and edits the society's community blogs.
type CommunityBoard struct {
	view
	api  CommunityAPI
	deps Deps
	log  *slog.Logger

	mu     sync.Mutex
	saving bool
	blogs  []BlogItem
}

func NewCommunityBoard(ctx context.Context, api CommunityAPI, deps Deps) *CommunityBoard {
	deps = deps.withDefaults()
	return &CommunityBoard{
		view: newView(ctx),
		api:  api,
		deps: deps,
		log:  deps.Logger.With("component", "community_board"),
	}
}

func (b *CommunityBoard) List(ctx context.Context) ([]BlogItem, error) {
	actor, err := b.deps.Identity.Current()
	if err != nil || actor.SocietyCode == "" {
		return nil, validation(MsgLoginRequired)
	}
	ctx, cancel := b.bind(ctx)
	defer cancel()

	blogs, err := b.api.Blogs(ctx, actor.SocietyCode)
	if aliveErr := b.alive(); aliveErr != nil {
		return nil, aliveErr
	}
	if err != nil {
		b.deps.Notifier.Failure(MsgLoadBlogs)
		b.mu.Lock()
		b.blogs = []BlogItem{}
		b.mu.Unlock()
		return []BlogItem{}, fetchFailure(err, MsgLoadBlogs)
	}

	results := enrich(ctx, blogs, func(ctx context.Context, bl backend.Blog) (string, error) {
		if bl.UserID == nil || *bl.UserID == "" {
			return SocietyAdmin, nil
		}
		return b.api.BlogAuthor(ctx, *bl.UserID)
	})
	if aliveErr := b.alive(); aliveErr != nil {
		return nil, aliveErr
	}

	items := make([]BlogItem, len(blogs))
	for i, bl := range blogs {
		items[i] = BlogItem{Blog: bl, AuthorName: results[i].Value}
		if results[i].Err != nil {
			items[i].AuthorName = UnknownAuthor
		}
	}
	b.mu.Lock()
	b.blogs = items
	b.mu.Unlock()
	return slices.Clone(items), nil
}

// Publish posts a blog. Staff posts go out as the society admin.
func (b *CommunityBoard) Publish(ctx context.Context, post BlogPost) (*backend.Blog, error) {
	return b.save(ctx, "", post)
}

// Update rewrites a blog the actor authored.
func (b *CommunityBoard) Update(ctx context.Context, id string, post BlogPost) (*backend.Blog, error) {
	return b.save(ctx, id, post)
}

func (b *CommunityBoard) Delete(ctx context.Context, id string) error {
	if _, err := b.deps.Identity.Current(); err != nil {
		return validation(MsgLoginRequired)
	}
	ctx, cancel := b.bind(ctx)
	defer cancel()

	err := b.api.DeleteBlog(ctx, id)
	if aliveErr := b.alive(); aliveErr != nil {
		return aliveErr
	}
	if err != nil {
		we := writeFailure(err, MsgBlogDeleteFailed)
		b.deps.Notifier.Failure(we.Message)
		return we
	}
	b.mu.Lock()
	b.blogs = slices.DeleteFunc(b.blogs, func(bl BlogItem) bool { return bl.ID == id })
	b.mu.Unlock()
	b.deps.Notifier.Success(MsgBlogDeleted)
	return nil
}

func (b *CommunityBoard) save(ctx context.Context, id string, post BlogPost) (*backend.Blog, error) {
	if strings.TrimSpace(post.Title) == "" || strings.TrimSpace(post.Content) == "" {
		return nil, validation(MsgFillAllFields)
	}
	actor, err := b.deps.Identity.Current()
	if err != nil || actor.SocietyCode == "" {
		return nil, validation(MsgLoginRequired)
	}

	b.mu.Lock()
	if b.saving {
		b.mu.Unlock()
		return nil, validation(MsgBusy)
	}
	b.saving = true
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.saving = false
		b.mu.Unlock()
	}()

	ctx, cancel := b.bind(ctx)
	defer cancel()

	draft := backend.BlogDraft{
		Title:       strings.TrimSpace(post.Title),
		Content:     strings.TrimSpace(post.Content),
		SocietyCode: actor.SocietyCode,
	}
	if post.Image != nil {
		if b.deps.Uploader == nil {
			return nil, validation(MsgUploadFailed)
		}
		url, err := b.deps.Uploader.Upload(ctx, *post.Image)
		if aliveErr := b.alive(); aliveErr != nil {
			return nil, aliveErr
		}
		if err != nil {
			b.deps.Notifier.Failure(MsgUploadFailed)
			return nil, &Error{Kind: KindWrite, Message: MsgUploadFailed, Err: err}
		}
		draft.Image = url
	}

	var blog *backend.Blog
	switch {
	case id != "":
		blog, err = b.api.UpdateBlog(ctx, id, draft)
	case actor.IsStaff():
		blog, err = b.api.AddAdminBlog(ctx, draft)
	default:
		draft.UserID = actor.ID
		blog, err = b.api.AddBlog(ctx, draft)
	}
	if aliveErr := b.alive(); aliveErr != nil {
		return nil, aliveErr
	}
	if err != nil {
		we := writeFailure(err, MsgBlogFailed)
		b.deps.Notifier.Failure(we.Message)
		return nil, we
	}
	b.deps.Notifier.Success(MsgBlogPublished)
	return blog, nil
}
