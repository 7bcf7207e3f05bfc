package workflow

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/societyhub/backend/internal/assets"
	"github.com/societyhub/backend/internal/backend"
	"github.com/societyhub/backend/internal/identity"
	"github.com/societyhub/backend/internal/lifecycle"
)

func countByID(items []NoticeItem, id string) int {
	n := 0
	for _, it := range items {
		if it.ID == id {
			n++
		}
	}
	return n
}

func TestSubmitThenApproveMovesNotice(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.authors["res-1"] = backend.Author{AuthorName: "Asha", FlatID: "A-101"}
	rec := &Recorder{}

	residentBoard := NewNoticeBoard(ctx, api, testDeps(resident, nil, rec))
	notice, err := residentBoard.SubmitNotice(ctx, NoticeSubmission{
		Title:       "Lift Maintenance",
		Description: "Lift will be down 3pm-5pm",
		Type:        lifecycle.NoticeGeneral,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if notice.Approved {
		t.Fatal("resident notice must start unapproved")
	}

	staffBoard := NewNoticeBoard(ctx, api, testDeps(society, nil, rec))
	scope := SocietyScope("GRN01")

	pending, err := staffBoard.ListPending(ctx, scope)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if countByID(pending, notice.ID) != 1 {
		t.Fatalf("submitted notice missing from pending: %+v", pending)
	}
	if pending[0].AuthorName != "Asha" || pending[0].FlatID != "A-101" {
		t.Fatalf("author not resolved: %+v", pending[0])
	}
	approved, _ := staffBoard.ListApproved(ctx, scope)
	if countByID(approved, notice.ID) != 0 {
		t.Fatal("unapproved notice listed as approved")
	}

	if err := staffBoard.Approve(ctx, notice.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if countByID(staffBoard.Pending(), notice.ID) != 0 {
		t.Fatal("approved notice still in local pending list")
	}
	if countByID(staffBoard.Approved(), notice.ID) != 1 {
		t.Fatal("approved notice missing from local approved list")
	}

	approved, _ = staffBoard.ListApproved(ctx, scope)
	pending, _ = staffBoard.ListPending(ctx, scope)
	if countByID(approved, notice.ID) != 1 || countByID(pending, notice.ID) != 0 {
		t.Fatalf("after approve: approved=%d pending=%d", countByID(approved, notice.ID), countByID(pending, notice.ID))
	}
}

func TestApproveTwiceDoesNotDuplicate(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.addNotice(backend.Notice{ID: "n1", Title: "Water", Type: lifecycle.NoticeGeneral, Scope: lifecycle.ScopeSociety, ScopeCode: "GRN01"})
	board := NewNoticeBoard(ctx, api, testDeps(society, nil, &Recorder{}))
	scope := SocietyScope("GRN01")

	board.ListPending(ctx, scope)
	board.ListApproved(ctx, scope)
	if err := board.Approve(ctx, "n1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	before := board.Approved()
	if countByID(before, "n1") != 1 {
		t.Fatalf("expected n1 once after approval, got %d", countByID(before, "n1"))
	}
	if err := board.Approve(ctx, "n1"); err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if countByID(board.Approved(), "n1") != 1 {
		t.Fatal("second approval duplicated the notice locally")
	}
	after, _ := board.ListApproved(ctx, scope)
	if countByID(after, "n1") != 1 {
		t.Fatal("notice duplicated in approved list")
	}
}

func TestApproveFailureKeepsPending(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.addNotice(backend.Notice{ID: "n1", Title: "Water", Type: lifecycle.NoticeGeneral, Scope: lifecycle.ScopeSociety, ScopeCode: "GRN01"})
	rec := &Recorder{}
	board := NewNoticeBoard(ctx, api, testDeps(society, nil, rec))
	board.ListPending(ctx, SocietyScope("GRN01"))
	rec.Drain()

	api.failApprove = &backend.APIError{StatusCode: http.StatusForbidden, Message: "Notice belongs to another society"}
	err := board.Approve(ctx, "n1")
	if !IsKind(err, KindWrite) || err.Error() != "Notice belongs to another society" {
		t.Fatalf("expected server message, got %v", err)
	}
	if countByID(board.Pending(), "n1") != 1 {
		t.Fatal("notice left pending list after failed approval")
	}

	api.failApprove = errNetwork
	err = board.Approve(ctx, "n1")
	if err == nil || err.Error() != MsgApprovalFailed {
		t.Fatalf("expected generic approval failure, got %v", err)
	}
	if n := lastNotification(rec); n.OK || n.Message != MsgApprovalFailed {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestApproveRequiresSocietyStaff(t *testing.T) {
	for _, who := range []identity.Static{resident, federation} {
		api := newFakeAPI()
		board := NewNoticeBoard(context.Background(), api, testDeps(who, nil, &Recorder{}))
		if err := board.Approve(context.Background(), "n1"); !IsKind(err, KindValidation) || err.Error() != MsgSocietyOnly {
			t.Fatalf("%s: expected society-only error, got %v", who.Role, err)
		}
		if api.totalCalls() != 0 {
			t.Fatalf("%s approval reached the backend", who.Role)
		}
	}
}

func TestSubmitValidation(t *testing.T) {
	api := newFakeAPI()
	board := NewNoticeBoard(context.Background(), api, testDeps(resident, nil, &Recorder{}))

	cases := []NoticeSubmission{
		{Title: "  ", Description: "d", Type: lifecycle.NoticeGeneral},
		{Title: "t", Description: "\n", Type: lifecycle.NoticeGeneral},
		{Title: "t", Description: "d"},
		{Title: "t", Description: "d", Type: "memo"},
	}
	for _, sub := range cases {
		_, err := board.SubmitNotice(context.Background(), sub)
		if !IsKind(err, KindValidation) || err.Error() != MsgFillAllFields {
			t.Fatalf("%+v: expected fill-all-fields, got %v", sub, err)
		}
	}

	anon := NewNoticeBoard(context.Background(), api, testDeps(identity.Anonymous, nil, &Recorder{}))
	_, err := anon.SubmitNotice(context.Background(), NoticeSubmission{Title: "t", Description: "d", Type: lifecycle.NoticeGeneral})
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error for anonymous actor, got %v", err)
	}
	if api.totalCalls() != 0 {
		t.Fatalf("validation failures reached the backend: %v", api.calls)
	}
}

func TestSubmitUploadsImagesInOrder(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	up := &fakeUploader{}
	board := NewNoticeBoard(ctx, api, testDeps(resident, up, &Recorder{}))

	n, err := board.SubmitNotice(ctx, NoticeSubmission{
		Title: "Lost cat", Description: "Grey, answers to Miso", Type: lifecycle.NoticeLostAndFound,
		Images: []assets.File{{Name: "a.jpg", Data: []byte("1")}, {Name: "b.jpg", Data: []byte("2")}},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(n.Images) != 2 || n.Images[0] != "url:a.jpg" || n.Images[1] != "url:b.jpg" {
		t.Fatalf("images = %v", n.Images)
	}
	if board.Uploading() || board.Submitting() {
		t.Fatal("flags left set after submit")
	}
}

func TestSubmitUploadFailureSkipsPost(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	board := NewNoticeBoard(ctx, api, testDeps(resident, &fakeUploader{err: errNetwork}, &Recorder{}))

	_, err := board.SubmitNotice(ctx, NoticeSubmission{
		Title: "t", Description: "d", Type: lifecycle.NoticeGeneral,
		Images: []assets.File{{Name: "a.jpg", Data: []byte("1")}},
	})
	if !IsKind(err, KindWrite) || !errors.Is(err, errNetwork) {
		t.Fatalf("expected write error wrapping upload failure, got %v", err)
	}
	if api.count("PostUserNotice") != 0 {
		t.Fatal("notice posted despite failed upload")
	}
}

func TestEnrichmentDegradesPerItem(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	good, bad := "res-1", "res-2"
	api.authors[good] = backend.Author{AuthorName: "Asha", FlatID: "A-101"}
	api.failAuthor[bad] = errNetwork
	api.addNotice(backend.Notice{ID: "n1", Approved: true, UserID: &good, Scope: lifecycle.ScopeSociety, ScopeCode: "GRN01"})
	api.addNotice(backend.Notice{ID: "n2", Approved: true, UserID: &bad, Scope: lifecycle.ScopeSociety, ScopeCode: "GRN01"})
	api.addNotice(backend.Notice{ID: "n3", Approved: true, Scope: lifecycle.ScopeSociety, ScopeCode: "GRN01"})

	board := NewNoticeBoard(ctx, api, testDeps(resident, nil, &Recorder{}))
	items, err := board.ListApproved(ctx, SocietyScope("GRN01"))
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	got := map[string]NoticeItem{}
	for _, it := range items {
		got[it.ID] = it
	}
	if got["n1"].AuthorName != "Asha" {
		t.Fatalf("n1 author = %q", got["n1"].AuthorName)
	}
	if got["n2"].AuthorName != UnknownAuthor || got["n2"].FlatID != UnknownFlat || got["n2"].LookupErr == nil {
		t.Fatalf("n2 should degrade to placeholders: %+v", got["n2"])
	}
	if got["n3"].AuthorName != CommitteeMember {
		t.Fatalf("n3 author = %q", got["n3"].AuthorName)
	}
}

func TestListFailureLeavesEmptyList(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.failList = errNetwork
	rec := &Recorder{}
	board := NewNoticeBoard(ctx, api, testDeps(resident, nil, rec))

	items, err := board.ListApproved(ctx, SocietyScope("GRN01"))
	if !IsKind(err, KindFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", items)
	}
	if n := lastNotification(rec); n.Message != MsgLoadNotices {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestStaffPollNeedsOptions(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	board := NewNoticeBoard(ctx, api, testDeps(society, nil, &Recorder{}))

	_, err := board.PostStaffNotice(ctx, StaffNotice{Title: "AGM venue", Description: "Pick one", Type: lifecycle.NoticePoll, Options: []string{" ", ""}})
	if err == nil || err.Error() != MsgPollNeedsOptions {
		t.Fatalf("expected poll option error, got %v", err)
	}

	n, err := board.PostStaffNotice(ctx, StaffNotice{Title: "AGM venue", Description: "Pick one", Type: lifecycle.NoticePoll, Options: []string{"Clubhouse", "Terrace"}})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if !n.Approved || len(api.options[n.ID]) != 2 {
		t.Fatalf("staff poll not created as expected: %+v options=%v", n, api.options[n.ID])
	}
}

func TestFederationStaffPostsToFederation(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	fed := identity.Static{ID: "fed-1", Role: identity.RoleFederation, FederationCode: "FED1"}
	board := NewNoticeBoard(ctx, api, testDeps(fed, nil, &Recorder{}))

	n, err := board.PostStaffNotice(ctx, StaffNotice{Title: "Holiday", Description: "Office closed", Type: lifecycle.NoticeAnnouncement})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if n.Scope != lifecycle.ScopeFederation || n.ScopeCode != "FED1" {
		t.Fatalf("posted to wrong scope: %+v", n)
	}

	api.federation = "FED1"
	residentBoard := NewNoticeBoard(ctx, api, testDeps(resident, nil, &Recorder{}))
	items, err := residentBoard.ListFederation(ctx)
	if err != nil || countByID(items, n.ID) != 1 {
		t.Fatalf("federation list: %v %+v", err, items)
	}
}

func TestEditKeepsApproval(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.addNotice(backend.Notice{ID: "n1", Title: "Old", Description: "old", Approved: true, Type: lifecycle.NoticeGeneral, Scope: lifecycle.ScopeSociety, ScopeCode: "GRN01"})
	board := NewNoticeBoard(ctx, api, testDeps(society, nil, &Recorder{}))
	board.ListApproved(ctx, SocietyScope("GRN01"))

	n, err := board.EditNotice(ctx, SocietyScope("GRN01"), "n1", backend.NoticeEdit{Title: " New ", Description: "new"})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if n.Title != "New" || !n.Approved || n.Type != lifecycle.NoticeGeneral {
		t.Fatalf("unexpected notice after edit: %+v", n)
	}
	if got := board.Approved()[0].Title; got != "New" {
		t.Fatalf("local list not updated, title = %q", got)
	}
}

func TestClosedBoardDiscardsResults(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.addNotice(backend.Notice{ID: "n1", Approved: true, Scope: lifecycle.ScopeSociety, ScopeCode: "GRN01"})
	board := NewNoticeBoard(ctx, api, testDeps(resident, nil, &Recorder{}))
	board.Close()

	items, err := board.ListApproved(ctx, SocietyScope("GRN01"))
	if !errors.Is(err, ErrViewClosed) || items != nil {
		t.Fatalf("expected ErrViewClosed, got %v %v", items, err)
	}
	if len(board.Approved()) != 0 {
		t.Fatal("closed board applied a late result")
	}
}
