package workflow

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/societyhub/backend/internal/assets"
	"github.com/societyhub/backend/internal/backend"
	"github.com/societyhub/backend/internal/identity"
	"github.com/societyhub/backend/internal/lifecycle"
)

// NoticeAPI is the part of the REST client the notice board uses.
type NoticeAPI interface {
	AllNotices(ctx context.Context, societyCode string) ([]backend.Notice, error)
	FederationNotices(ctx context.Context, federationID string) ([]backend.Notice, error)
	UserNotices(ctx context.Context, userID string) ([]backend.Notice, error)
	PostUserNotice(ctx context.Context, draft backend.NoticeDraft) (*backend.Notice, error)
	PostNotice(ctx context.Context, draft backend.NoticeDraft) (*backend.Notice, error)
	EditNotice(ctx context.Context, id string, edit backend.NoticeEdit) (*backend.Notice, error)
	ApproveNotice(ctx context.Context, id string) error
	PostFederationNotice(ctx context.Context, draft backend.FederationNoticeDraft) (*backend.Notice, error)
	UpdateFederationNotice(ctx context.Context, id string, edit backend.NoticeEdit) (*backend.Notice, error)
	NoticeAuthor(ctx context.Context, userID string) (backend.Author, error)
	FederationOf(ctx context.Context, societyCode string) (string, error)
}

// Scope is the tenant boundary that owns a notice.
type Scope struct {
	Kind string
	Code string
}

func SocietyScope(code string) Scope    { return Scope{Kind: lifecycle.ScopeSociety, Code: code} }
func FederationScope(code string) Scope { return Scope{Kind: lifecycle.ScopeFederation, Code: code} }

func (s Scope) valid() bool {
	return s.Code != "" && (s.Kind == lifecycle.ScopeSociety || s.Kind == lifecycle.ScopeFederation)
}

// NoticeItem is a notice with its author resolved for display.
type NoticeItem struct {
	backend.Notice
	AuthorName string
	FlatID     string
	// LookupErr is set when the author lookup failed and placeholders are shown.
	LookupErr error
}

// NoticeSubmission is what a resident fills in on the notice form.
type NoticeSubmission struct {
	Title       string
	Description string
	Type        lifecycle.NoticeType
	Images      []assets.File
}

// StaffNotice is a notice published directly by society or federation staff.
type StaffNotice struct {
	Title       string
	Description string
	Type        lifecycle.NoticeType
	Images      []assets.File
	Options     []string
}

// NoticeBoard runs the notice approval workflow for one view.
type NoticeBoard struct {
	view
	api  NoticeAPI
	deps Deps
	log  *slog.Logger

	mu         sync.Mutex
	submitting bool
	uploading  bool
	approving  bool
	approved   []NoticeItem
	pending    []NoticeItem
}

func NewNoticeBoard(ctx context.Context, api NoticeAPI, deps Deps) *NoticeBoard {
	deps = deps.withDefaults()
	return &NoticeBoard{
		view: newView(ctx),
		api:  api,
		deps: deps,
		log:  deps.Logger.With("component", "notice_board"),
	}
}

// Submitting reports whether a submission is in flight.
func (b *NoticeBoard) Submitting() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.submitting
}

// Uploading reports whether notice images are being uploaded.
func (b *NoticeBoard) Uploading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploading
}

// Approved returns the approved list from the last ListApproved.
func (b *NoticeBoard) Approved() []NoticeItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.approved)
}

// Pending returns the pending list from the last ListPending.
func (b *NoticeBoard) Pending() []NoticeItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.pending)
}

// SubmitNotice uploads any images and posts an unapproved notice in the
// actor's society.
func (b *NoticeBoard) SubmitNotice(ctx context.Context, sub NoticeSubmission) (*backend.Notice, error) {
	if strings.TrimSpace(sub.Title) == "" || strings.TrimSpace(sub.Description) == "" || !sub.Type.Valid() {
		return nil, validation(MsgFillAllFields)
	}
	actor, err := b.deps.Identity.Current()
	if err != nil || actor.SocietyCode == "" {
		return nil, validation(MsgLoginRequired)
	}

	if !b.begin(&b.submitting) {
		return nil, validation(MsgBusy)
	}
	defer b.end(&b.submitting)

	ctx, cancel := b.bind(ctx)
	defer cancel()

	urls, err := b.upload(ctx, sub.Images)
	if err != nil {
		return nil, err
	}

	notice, err := b.api.PostUserNotice(ctx, backend.NoticeDraft{
		Title:       strings.TrimSpace(sub.Title),
		Description: strings.TrimSpace(sub.Description),
		Type:        sub.Type,
		Images:      urls,
		UserID:      actor.ID,
		SocietyCode: actor.SocietyCode,
	})
	if aliveErr := b.alive(); aliveErr != nil {
		return nil, aliveErr
	}
	if err != nil {
		b.log.Error("notice submission failed", "error", err, "actor_id", actor.ID)
		we := writeFailure(err, MsgNoticeSubmitFailed)
		b.deps.Notifier.Failure(we.Message)
		return nil, we
	}

	b.deps.Notifier.Success(MsgNoticeSubmitted)
	return notice, nil
}

// PostStaffNotice publishes an approved notice in the actor's own scope.
// Poll notices need at least one option.
func (b *NoticeBoard) PostStaffNotice(ctx context.Context, sn StaffNotice) (*backend.Notice, error) {
	if strings.TrimSpace(sn.Title) == "" || strings.TrimSpace(sn.Description) == "" || !sn.Type.Valid() {
		return nil, validation(MsgFillAllFields)
	}
	options := cleanOptions(sn.Options)
	if sn.Type == lifecycle.NoticePoll && len(options) == 0 {
		return nil, validation(MsgPollNeedsOptions)
	}
	actor, err := b.deps.Identity.Current()
	if err != nil {
		return nil, validation(MsgLoginRequired)
	}
	if !actor.IsStaff() {
		return nil, validation(MsgStaffOnly)
	}

	if !b.begin(&b.submitting) {
		return nil, validation(MsgBusy)
	}
	defer b.end(&b.submitting)

	ctx, cancel := b.bind(ctx)
	defer cancel()

	urls, err := b.upload(ctx, sn.Images)
	if err != nil {
		return nil, err
	}

	var notice *backend.Notice
	if actor.Role == identity.RoleFederation {
		notice, err = b.api.PostFederationNotice(ctx, backend.FederationNoticeDraft{
			Title:          strings.TrimSpace(sn.Title),
			Description:    strings.TrimSpace(sn.Description),
			Type:           sn.Type,
			Images:         urls,
			FederationCode: actor.FederationCode,
			Options:        options,
		})
	} else {
		notice, err = b.api.PostNotice(ctx, backend.NoticeDraft{
			Title:       strings.TrimSpace(sn.Title),
			Description: strings.TrimSpace(sn.Description),
			Type:        sn.Type,
			Images:      urls,
			SocietyCode: actor.SocietyCode,
			Options:     options,
		})
	}
	if aliveErr := b.alive(); aliveErr != nil {
		return nil, aliveErr
	}
	if err != nil {
		we := writeFailure(err, MsgNoticePostFailed)
		b.deps.Notifier.Failure(we.Message)
		return nil, we
	}

	b.deps.Notifier.Success(MsgNoticePosted)
	return notice, nil
}

// EditNotice replaces a notice's content. Approval and type never change.
func (b *NoticeBoard) EditNotice(ctx context.Context, scope Scope, id string, edit backend.NoticeEdit) (*backend.Notice, error) {
	if strings.TrimSpace(edit.Title) == "" || strings.TrimSpace(edit.Description) == "" {
		return nil, validation(MsgFillAllFields)
	}
	if !b.begin(&b.submitting) {
		return nil, validation(MsgBusy)
	}
	defer b.end(&b.submitting)

	ctx, cancel := b.bind(ctx)
	defer cancel()

	edit.Title = strings.TrimSpace(edit.Title)
	edit.Description = strings.TrimSpace(edit.Description)

	var (
		notice *backend.Notice
		err    error
	)
	if scope.Kind == lifecycle.ScopeFederation {
		notice, err = b.api.UpdateFederationNotice(ctx, id, edit)
	} else {
		notice, err = b.api.EditNotice(ctx, id, edit)
	}
	if aliveErr := b.alive(); aliveErr != nil {
		return nil, aliveErr
	}
	if err != nil {
		we := writeFailure(err, MsgNoticeUpdateFailed)
		b.deps.Notifier.Failure(we.Message)
		return nil, we
	}

	b.mu.Lock()
	replaceNotice(b.approved, *notice)
	replaceNotice(b.pending, *notice)
	b.mu.Unlock()

	b.deps.Notifier.Success(MsgNoticeUpdated)
	return notice, nil
}

// ListApproved returns the approved notices of scope with authors resolved.
func (b *NoticeBoard) ListApproved(ctx context.Context, scope Scope) ([]NoticeItem, error) {
	items, err := b.list(ctx, scope, true)
	if err != nil && !IsKind(err, KindFetch) {
		return nil, err
	}
	b.mu.Lock()
	b.approved = items
	b.mu.Unlock()
	return slices.Clone(items), err
}

// ListPending returns the notices of scope still awaiting approval.
func (b *NoticeBoard) ListPending(ctx context.Context, scope Scope) ([]NoticeItem, error) {
	items, err := b.list(ctx, scope, false)
	if err != nil && !IsKind(err, KindFetch) {
		return nil, err
	}
	b.mu.Lock()
	b.pending = items
	b.mu.Unlock()
	return slices.Clone(items), err
}

// ListFederation resolves the federation of the actor's society and lists
// its approved notices.
func (b *NoticeBoard) ListFederation(ctx context.Context) ([]NoticeItem, error) {
	actor, err := b.deps.Identity.Current()
	if err != nil {
		return nil, validation(MsgLoginRequired)
	}
	code := actor.FederationCode
	if code == "" {
		if actor.SocietyCode == "" {
			return nil, validation(MsgLoginRequired)
		}
		rctx, cancel := b.bind(ctx)
		code, err = b.api.FederationOf(rctx, actor.SocietyCode)
		cancel()
		if aliveErr := b.alive(); aliveErr != nil {
			return nil, aliveErr
		}
		if err != nil {
			b.deps.Notifier.Failure(MsgLoadNotices)
			return nil, fetchFailure(err, MsgLoadNotices)
		}
	}
	return b.ListApproved(ctx, FederationScope(code))
}

// MyNotices lists the actor's own submissions, approved or not.
func (b *NoticeBoard) MyNotices(ctx context.Context) ([]backend.Notice, error) {
	actor, err := b.deps.Identity.Current()
	if err != nil {
		return nil, validation(MsgLoginRequired)
	}
	ctx, cancel := b.bind(ctx)
	defer cancel()

	notices, err := b.api.UserNotices(ctx, actor.ID)
	if aliveErr := b.alive(); aliveErr != nil {
		return nil, aliveErr
	}
	if err != nil {
		b.deps.Notifier.Failure(MsgLoadNotices)
		return nil, fetchFailure(err, MsgLoadNotices)
	}
	return notices, nil
}

// Approve marks a pending notice approved. Only society staff approve; on
// failure the notice stays pending.
func (b *NoticeBoard) Approve(ctx context.Context, id string) error {
	actor, err := b.deps.Identity.Current()
	if err != nil {
		return validation(MsgLoginRequired)
	}
	if actor.Role != identity.RoleSociety {
		return validation(MsgSocietyOnly)
	}
	if !b.begin(&b.approving) {
		return validation(MsgBusy)
	}
	defer b.end(&b.approving)

	ctx, cancel := b.bind(ctx)
	defer cancel()

	err = b.api.ApproveNotice(ctx, id)
	if aliveErr := b.alive(); aliveErr != nil {
		return aliveErr
	}
	if err != nil {
		b.log.Error("notice approval failed", "error", err, "actor_id", actor.ID, "notice_id", id)
		we := writeFailure(err, MsgApprovalFailed)
		b.deps.Notifier.Failure(we.Message)
		return we
	}

	b.mu.Lock()
	if i := indexNotice(b.pending, id); i >= 0 {
		item := b.pending[i]
		item.Approved = true
		b.pending = slices.Delete(b.pending, i, i+1)
		if indexNotice(b.approved, id) < 0 {
			b.approved = append([]NoticeItem{item}, b.approved...)
		}
	}
	b.mu.Unlock()

	b.deps.Notifier.Success(MsgNoticeApproved)
	return nil
}

func (b *NoticeBoard) list(ctx context.Context, scope Scope, approved bool) ([]NoticeItem, error) {
	if !scope.valid() {
		return nil, validation(MsgLoginRequired)
	}
	ctx, cancel := b.bind(ctx)
	defer cancel()

	var (
		notices []backend.Notice
		err     error
	)
	if scope.Kind == lifecycle.ScopeFederation {
		notices, err = b.api.FederationNotices(ctx, scope.Code)
	} else {
		notices, err = b.api.AllNotices(ctx, scope.Code)
	}
	if aliveErr := b.alive(); aliveErr != nil {
		return nil, aliveErr
	}
	if err != nil {
		b.log.Error("notice list failed", "error", err, "scope", scope.Kind, "society_code", scope.Code)
		b.deps.Notifier.Failure(MsgLoadNotices)
		return []NoticeItem{}, fetchFailure(err, MsgLoadNotices)
	}

	filtered := make([]backend.Notice, 0, len(notices))
	for _, n := range notices {
		if n.Approved == approved {
			filtered = append(filtered, n)
		}
	}

	results := enrich(ctx, filtered, func(ctx context.Context, n backend.Notice) (backend.Author, error) {
		if n.UserID == nil || *n.UserID == "" {
			return backend.Author{AuthorName: CommitteeMember}, nil
		}
		return b.api.NoticeAuthor(ctx, *n.UserID)
	})
	if aliveErr := b.alive(); aliveErr != nil {
		return nil, aliveErr
	}

	items := make([]NoticeItem, len(filtered))
	for i, n := range filtered {
		items[i] = NoticeItem{Notice: n, AuthorName: results[i].Value.AuthorName, FlatID: results[i].Value.FlatID}
		if results[i].Err != nil {
			b.log.Warn("author lookup failed", "error", results[i].Err, "notice_id", n.ID)
			items[i].AuthorName = UnknownAuthor
			items[i].FlatID = UnknownFlat
			items[i].LookupErr = results[i].Err
		}
	}
	return items, nil
}

// upload stores images in selection order; the uploading flag is held for
// the duration.
func (b *NoticeBoard) upload(ctx context.Context, files []assets.File) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}
	if b.deps.Uploader == nil {
		return nil, validation(MsgUploadFailed)
	}
	b.mu.Lock()
	b.uploading = true
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.uploading = false
		b.mu.Unlock()
	}()

	urls, err := assets.UploadAll(ctx, b.deps.Uploader, files)
	if aliveErr := b.alive(); aliveErr != nil {
		return nil, aliveErr
	}
	if err != nil {
		b.log.Error("notice image upload failed", "error", err)
		b.deps.Notifier.Failure(MsgUploadFailed)
		return nil, &Error{Kind: KindWrite, Message: MsgUploadFailed, Err: err}
	}
	return urls, nil
}

func (b *NoticeBoard) begin(flag *bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if *flag {
		return false
	}
	*flag = true
	return true
}

func (b *NoticeBoard) end(flag *bool) {
	b.mu.Lock()
	*flag = false
	b.mu.Unlock()
}

func indexNotice(items []NoticeItem, id string) int {
	return slices.IndexFunc(items, func(it NoticeItem) bool { return it.ID == id })
}

func replaceNotice(items []NoticeItem, n backend.Notice) {
	if i := indexNotice(items, n.ID); i >= 0 {
		items[i].Title = n.Title
		items[i].Description = n.Description
		items[i].Images = n.Images
	}
}

func cleanOptions(opts []string) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		if t := strings.TrimSpace(o); t != "" {
			out = append(out, t)
		}
	}
	return out
}
