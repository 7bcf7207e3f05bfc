package documents

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/societyhub/backend/internal/apps/apptest"
)

func TestDocumentShelf(t *testing.T) {
	h, stop := apptest.Start(t, New(), map[string]string{"GRN01": "FED1", "GRN02": "FED1"})
	defer stop()

	_, residentTok := h.Resident("GRN01", "asha", "A-101")
	staffTok := h.Staff("GRN01")
	fedTok := h.Federation("FED1")

	if code := h.Call("POST", "/api/documents/post", residentTok, DocumentInput{Title: "Bylaws", URL: "https://cdn/bylaws.pdf"}, nil); code != fiber.StatusForbidden {
		t.Fatalf("resident post = %d", code)
	}
	if code := h.Call("POST", "/api/documents/post", staffTok, DocumentInput{Title: "Bylaws", URL: "not a url"}, nil); code != fiber.StatusBadRequest {
		t.Fatalf("bad url = %d", code)
	}

	var doc Document
	if code := h.Call("POST", "/api/documents/post", staffTok, DocumentInput{Title: "Bylaws", URL: "https://cdn/bylaws.pdf"}, &doc); code != fiber.StatusCreated || doc.SocietyCode != "GRN01" {
		t.Fatalf("post: %d %+v", code, doc)
	}
	if code := h.Call("POST", "/api/documents/post?society_code=GRN02", fedTok, DocumentInput{Title: "Circular", URL: "https://cdn/c.pdf"}, nil); code != fiber.StatusCreated {
		t.Fatalf("federation post = %d", code)
	}

	var shelf []Document
	h.Call("GET", "/api/documents/get", residentTok, nil, &shelf)
	if len(shelf) != 1 || shelf[0].ID != doc.ID {
		t.Fatalf("shelf = %+v", shelf)
	}

	if code := h.Call("DELETE", "/api/documents/delete/"+doc.ID.String(), staffTok, nil, nil); code != fiber.StatusOK {
		t.Fatalf("delete = %d", code)
	}
	if code := h.Call("DELETE", "/api/documents/delete/"+doc.ID.String(), staffTok, nil, nil); code != fiber.StatusNotFound {
		t.Fatalf("second delete = %d", code)
	}
}
