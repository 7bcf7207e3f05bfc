package community

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/societyhub/backend/internal/apps/apptest"
)

func TestBlogOwnership(t *testing.T) {
	h, stop := apptest.Start(t, New(), map[string]string{"GRN01": "FED1"})
	defer stop()

	authorID, authorTok := h.Resident("GRN01", "asha", "A-101")
	_, neighbourTok := h.Resident("GRN01", "ravi", "A-102")
	staffTok := h.Staff("GRN01")

	var post Blog
	if code := h.Call("POST", "/api/blogs/add-blog", authorTok, BlogInput{Title: "Diwali", Content: "Lights at 7"}, &post); code != fiber.StatusCreated {
		t.Fatalf("add blog = %d", code)
	}
	if post.UserID == nil || *post.UserID != authorID {
		t.Fatalf("author = %v", post.UserID)
	}

	var admin Blog
	if code := h.Call("POST", "/api/blogs/add-admin-blog", staffTok, BlogInput{Title: "Water cut", Content: "Sunday 10-2"}, &admin); code != fiber.StatusCreated || admin.UserID != nil {
		t.Fatalf("admin blog: %d %+v", code, admin)
	}
	if code := h.Call("POST", "/api/blogs/add-admin-blog", authorTok, BlogInput{Title: "x", Content: "y"}, nil); code != fiber.StatusForbidden {
		t.Fatalf("resident admin blog = %d", code)
	}

	if code := h.Call("PUT", "/api/blogs/update-blog/"+post.ID.String(), neighbourTok, BlogInput{Title: "Hijack", Content: "no"}, nil); code != fiber.StatusForbidden {
		t.Fatalf("neighbour update = %d", code)
	}
	var edited Blog
	if code := h.Call("PUT", "/api/blogs/update-blog/"+post.ID.String(), authorTok, BlogInput{Title: "Diwali night", Content: "Lights at 8"}, &edited); code != fiber.StatusOK || edited.Title != "Diwali night" {
		t.Fatalf("author update: %d %+v", code, edited)
	}

	var author map[string]string
	h.Call("GET", "/api/blogs/author-name/"+authorID.String(), neighbourTok, nil, &author)
	if author["author_name"] != "asha" {
		t.Fatalf("author name = %v", author)
	}

	if code := h.Call("DELETE", "/api/blogs/delete-blog/"+post.ID.String(), staffTok, nil, nil); code != fiber.StatusOK {
		t.Fatalf("staff delete = %d", code)
	}
	var blogs []Blog
	h.Call("GET", "/api/blogs/all-blogs?society_code=GRN01", authorTok, nil, &blogs)
	if len(blogs) != 1 || blogs[0].ID != admin.ID {
		t.Fatalf("blogs = %+v", blogs)
	}
}
