package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/societyhub/backend/internal/assets"
	"github.com/societyhub/backend/internal/backend"
	"github.com/societyhub/backend/internal/identity"
	"github.com/societyhub/backend/internal/lifecycle"
)

var errNetwork = errors.New("connection refused")

// fakeAPI is an in-memory society backend.
type fakeAPI struct {
	mu      sync.Mutex
	seq     int
	calls   map[string]int
	notices map[string]*backend.Notice
	authors map[string]backend.Author
	options map[string][]backend.PollOption
	voted   map[string]bool

	complaints map[string]*backend.Complaint
	residents  map[string]backend.Resident
	changes    []backend.StatusChange

	blogs map[string]*backend.Blog
	docs  map[string]*backend.Document

	failList    error
	failApprove error
	failOptions error
	failStatus  error
	failAuthor  map[string]error
	federation  string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls:      make(map[string]int),
		notices:    make(map[string]*backend.Notice),
		authors:    make(map[string]backend.Author),
		options:    make(map[string][]backend.PollOption),
		voted:      make(map[string]bool),
		complaints: make(map[string]*backend.Complaint),
		residents:  make(map[string]backend.Resident),
		blogs:      make(map[string]*backend.Blog),
		docs:       make(map[string]*backend.Document),
		failAuthor: make(map[string]error),
	}
}

func (f *fakeAPI) hit(name string) {
	f.calls[name]++
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeAPI) addNotice(n backend.Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().Add(time.Duration(-len(f.notices)) * time.Minute)
	}
	f.notices[n.ID] = &n
}

func (f *fakeAPI) sortedNotices(scope, code string) []backend.Notice {
	out := make([]backend.Notice, 0)
	for _, n := range f.notices {
		if n.Scope == scope && n.ScopeCode == code {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeAPI) AllNotices(_ context.Context, societyCode string) ([]backend.Notice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("AllNotices")
	if f.failList != nil {
		return nil, f.failList
	}
	return f.sortedNotices(lifecycle.ScopeSociety, societyCode), nil
}

func (f *fakeAPI) FederationNotices(_ context.Context, federationID string) ([]backend.Notice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("FederationNotices")
	if f.failList != nil {
		return nil, f.failList
	}
	return f.sortedNotices(lifecycle.ScopeFederation, federationID), nil
}

func (f *fakeAPI) UserNotices(_ context.Context, userID string) ([]backend.Notice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("UserNotices")
	out := make([]backend.Notice, 0)
	for _, n := range f.notices {
		if n.UserID != nil && *n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeAPI) PostUserNotice(_ context.Context, d backend.NoticeDraft) (*backend.Notice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("PostUserNotice")
	uid := d.UserID
	n := &backend.Notice{
		ID: f.nextID("notice"), Title: d.Title, Description: d.Description, Type: d.Type,
		CreatedAt: time.Now(), UserID: &uid, Images: d.Images,
		Scope: lifecycle.ScopeSociety, ScopeCode: d.SocietyCode,
	}
	f.notices[n.ID] = n
	cp := *n
	return &cp, nil
}

func (f *fakeAPI) PostNotice(_ context.Context, d backend.NoticeDraft) (*backend.Notice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("PostNotice")
	n := &backend.Notice{
		ID: f.nextID("notice"), Title: d.Title, Description: d.Description, Type: d.Type,
		Approved: true, CreatedAt: time.Now(), Images: d.Images,
		Scope: lifecycle.ScopeSociety, ScopeCode: d.SocietyCode,
	}
	f.notices[n.ID] = n
	for _, text := range d.Options {
		f.options[n.ID] = append(f.options[n.ID], backend.PollOption{ID: f.nextID("opt"), NoticeID: n.ID, Text: text})
	}
	cp := *n
	return &cp, nil
}

func (f *fakeAPI) EditNotice(_ context.Context, id string, e backend.NoticeEdit) (*backend.Notice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("EditNotice")
	n, ok := f.notices[id]
	if !ok {
		return nil, &backend.APIError{StatusCode: http.StatusNotFound, Message: "Notice not found"}
	}
	n.Title, n.Description, n.Images = e.Title, e.Description, e.Images
	cp := *n
	return &cp, nil
}

func (f *fakeAPI) ApproveNotice(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("ApproveNotice")
	if f.failApprove != nil {
		return f.failApprove
	}
	n, ok := f.notices[id]
	if !ok {
		return &backend.APIError{StatusCode: http.StatusNotFound, Message: "Notice not found"}
	}
	n.Approved = true
	return nil
}

func (f *fakeAPI) PostFederationNotice(_ context.Context, d backend.FederationNoticeDraft) (*backend.Notice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("PostFederationNotice")
	n := &backend.Notice{
		ID: f.nextID("notice"), Title: d.Title, Description: d.Description, Type: d.Type,
		Approved: true, CreatedAt: time.Now(), Images: d.Images,
		Scope: lifecycle.ScopeFederation, ScopeCode: d.FederationCode,
	}
	f.notices[n.ID] = n
	cp := *n
	return &cp, nil
}

func (f *fakeAPI) UpdateFederationNotice(ctx context.Context, id string, e backend.NoticeEdit) (*backend.Notice, error) {
	return f.EditNotice(ctx, id, e)
}

func (f *fakeAPI) NoticeAuthor(_ context.Context, userID string) (backend.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("NoticeAuthor")
	if err := f.failAuthor[userID]; err != nil {
		return backend.Author{}, err
	}
	a, ok := f.authors[userID]
	if !ok {
		return backend.Author{}, &backend.APIError{StatusCode: http.StatusNotFound, Message: "User not found"}
	}
	return a, nil
}

func (f *fakeAPI) FederationOf(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("FederationOf")
	if f.federation == "" {
		return "", &backend.APIError{StatusCode: http.StatusNotFound, Message: "Society not found"}
	}
	return f.federation, nil
}

func (f *fakeAPI) PollOptions(_ context.Context, noticeID string) ([]backend.PollOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("PollOptions")
	if f.failOptions != nil {
		return nil, f.failOptions
	}
	return append([]backend.PollOption(nil), f.options[noticeID]...), nil
}

func (f *fakeAPI) Vote(_ context.Context, req backend.VoteRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("Vote")
	for noticeID, opts := range f.options {
		for i := range opts {
			if opts[i].ID != req.OptionID {
				continue
			}
			key := noticeID + "|" + req.UserID
			if f.voted[key] {
				return &backend.APIError{StatusCode: http.StatusConflict, Message: "You have already voted in this poll"}
			}
			f.voted[key] = true
			opts[i].Votes++
			return nil
		}
	}
	return &backend.APIError{StatusCode: http.StatusNotFound, Message: "Poll option not found"}
}

func (f *fakeAPI) addComplaint(c backend.Complaint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.complaints[c.ID] = &c
}

func (f *fakeAPI) Complaints(_ context.Context, societyCode string) ([]backend.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("Complaints")
	if f.failList != nil {
		return nil, f.failList
	}
	out := make([]backend.Complaint, 0)
	for _, c := range f.complaints {
		if c.SocietyCode == societyCode {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAPI) PostComplaint(_ context.Context, d backend.ComplaintDraft) (*backend.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("PostComplaint")
	c := &backend.Complaint{
		ID: f.nextID("complaint"), Title: d.Title, Content: d.Content,
		Status: lifecycle.StatusReceived, ResidentID: d.ResidentID, SocietyCode: d.SocietyCode,
	}
	f.complaints[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeAPI) ChangeComplaintStatus(_ context.Context, ch backend.StatusChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("ChangeComplaintStatus")
	f.changes = append(f.changes, ch)
	if f.failStatus != nil {
		return f.failStatus
	}
	c, ok := f.complaints[ch.ID]
	if !ok {
		return &backend.APIError{StatusCode: http.StatusNotFound, Message: "Complaint not found"}
	}
	if err := lifecycle.CheckTransition(c.Status, ch.Status); err != nil {
		return &backend.APIError{StatusCode: http.StatusConflict, Message: err.Error()}
	}
	c.Status = ch.Status
	if ch.Comment != "" {
		c.Comment = ch.Comment
	}
	if len(ch.Images) > 0 {
		c.Images = ch.Images
	}
	return nil
}

func (f *fakeAPI) ComplaintResident(_ context.Context, residentID string) (backend.Resident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("ComplaintResident")
	r, ok := f.residents[residentID]
	if !ok {
		return backend.Resident{}, errNetwork
	}
	return r, nil
}

func (f *fakeAPI) Blogs(_ context.Context, societyCode string) ([]backend.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("Blogs")
	out := make([]backend.Blog, 0)
	for _, b := range f.blogs {
		if b.SocietyCode == societyCode {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAPI) BlogAuthor(_ context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("BlogAuthor")
	a, ok := f.authors[userID]
	if !ok {
		return "", errNetwork
	}
	return a.AuthorName, nil
}

func (f *fakeAPI) addBlog(d backend.BlogDraft) *backend.Blog {
	b := &backend.Blog{ID: f.nextID("blog"), Title: d.Title, Content: d.Content, Image: d.Image, SocietyCode: d.SocietyCode}
	if d.UserID != "" {
		uid := d.UserID
		b.UserID = &uid
	}
	f.blogs[b.ID] = b
	cp := *b
	return &cp
}

func (f *fakeAPI) AddBlog(_ context.Context, d backend.BlogDraft) (*backend.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("AddBlog")
	return f.addBlog(d), nil
}

func (f *fakeAPI) AddAdminBlog(_ context.Context, d backend.BlogDraft) (*backend.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("AddAdminBlog")
	d.UserID = ""
	return f.addBlog(d), nil
}

func (f *fakeAPI) UpdateBlog(_ context.Context, id string, d backend.BlogDraft) (*backend.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("UpdateBlog")
	b, ok := f.blogs[id]
	if !ok {
		return nil, &backend.APIError{StatusCode: http.StatusNotFound, Message: "Blog not found"}
	}
	b.Title, b.Content = d.Title, d.Content
	cp := *b
	return &cp, nil
}

func (f *fakeAPI) DeleteBlog(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("DeleteBlog")
	delete(f.blogs, id)
	return nil
}

func (f *fakeAPI) Documents(_ context.Context, societyCode string) ([]backend.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("Documents")
	out := make([]backend.Document, 0)
	for _, d := range f.docs {
		if d.SocietyCode == societyCode {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeAPI) PostDocument(_ context.Context, d backend.DocumentDraft) (*backend.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("PostDocument")
	doc := &backend.Document{ID: f.nextID("doc"), Title: d.Title, URL: d.URL, SocietyCode: d.SocietyCode}
	f.docs[doc.ID] = doc
	cp := *doc
	return &cp, nil
}

func (f *fakeAPI) DeleteDocument(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("DeleteDocument")
	delete(f.docs, id)
	return nil
}

// fakeUploader returns url:<name> for each file.
type fakeUploader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (u *fakeUploader) Upload(_ context.Context, f assets.File) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	return "url:" + f.Name, nil
}

var (
	resident   = identity.Static{ID: "res-1", Role: identity.RoleResident, SocietyCode: "GRN01", Name: "Asha"}
	society    = identity.Static{ID: "soc-1", Role: identity.RoleSociety, SocietyCode: "GRN01", FederationCode: "FED1", Name: "Green Acres"}
	federation = identity.Static{ID: "fed-1", Role: identity.RoleFederation, SocietyCode: "GRN01", FederationCode: "FED1", Name: "Federation"}
)

func testDeps(id identity.Provider, up assets.Uploader, rec *Recorder) Deps {
	return Deps{
		Identity: id,
		Uploader: up,
		Notifier: rec,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func lastNotification(rec *Recorder) Notification {
	items := rec.Drain()
	if len(items) == 0 {
		return Notification{}
	}
	return items[len(items)-1]
}
