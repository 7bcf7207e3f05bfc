package workflow

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/societyhub/backend/internal/assets"
	"github.com/societyhub/backend/internal/backend"
	"github.com/societyhub/backend/internal/identity"
	"github.com/societyhub/backend/internal/lifecycle"
)

type ComplaintAPI interface {
	Complaints(ctx context.Context, societyCode string) ([]backend.Complaint, error)
	PostComplaint(ctx context.Context, draft backend.ComplaintDraft) (*backend.Complaint, error)
	ChangeComplaintStatus(ctx context.Context, change backend.StatusChange) error
	ComplaintResident(ctx context.Context, residentID string) (backend.Resident, error)
}

// ComplaintItem is a complaint with the filing resident resolved.
type ComplaintItem struct {
	backend.Complaint
	ResidentName string
	FlatID       string
}

// ReadOnly reports whether the complaint reached a terminal status.
func (c ComplaintItem) ReadOnly() bool { return c.Status.Terminal() }

// Controls lists the statuses the desk offers for this complaint. Terminal
// complaints have none.
func (c ComplaintItem) Controls() []lifecycle.ComplaintStatus { return c.Status.Next() }

// Resolution carries what a status change needs besides the target.
type Resolution struct {
	Comment     string
	ProofImages []assets.File
}

// ComplaintDesk is the society's complaint view.
type ComplaintDesk struct {
	view
	api  ComplaintAPI
	deps Deps
	log  *slog.Logger

	mu         sync.Mutex
	updating   bool
	uploading  bool
	filing     bool
	complaints []ComplaintItem
}

func NewComplaintDesk(ctx context.Context, api ComplaintAPI, deps Deps) *ComplaintDesk {
	deps = deps.withDefaults()
	return &ComplaintDesk{
		view: newView(ctx),
		api:  api,
		deps: deps,
		log:  deps.Logger.With("component", "complaint_desk"),
	}
}

// Uploading reports whether proof images are being uploaded.
func (d *ComplaintDesk) Uploading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.uploading
}

// Refresh reloads the society's complaints and resolves residents.
func (d *ComplaintDesk) Refresh(ctx context.Context) ([]ComplaintItem, error) {
	actor, err := d.deps.Identity.Current()
	if err != nil || actor.SocietyCode == "" {
		return nil, validation(MsgLoginRequired)
	}
	ctx, cancel := d.bind(ctx)
	defer cancel()

	complaints, err := d.api.Complaints(ctx, actor.SocietyCode)
	if aliveErr := d.alive(); aliveErr != nil {
		return nil, aliveErr
	}
	if err != nil {
		d.log.Error("complaint list failed", "error", err, "society_code", actor.SocietyCode)
		d.deps.Notifier.Failure(MsgLoadComplaints)
		d.mu.Lock()
		d.complaints = []ComplaintItem{}
		d.mu.Unlock()
		return []ComplaintItem{}, fetchFailure(err, MsgLoadComplaints)
	}

	results := enrich(ctx, complaints, func(ctx context.Context, c backend.Complaint) (backend.Resident, error) {
		return d.api.ComplaintResident(ctx, c.ResidentID)
	})
	if aliveErr := d.alive(); aliveErr != nil {
		return nil, aliveErr
	}

	items := make([]ComplaintItem, len(complaints))
	for i, c := range complaints {
		items[i] = ComplaintItem{Complaint: c, ResidentName: results[i].Value.Name, FlatID: results[i].Value.FlatID}
		if results[i].Err != nil {
			d.log.Warn("resident lookup failed", "error", results[i].Err, "complaint_id", c.ID)
			items[i].ResidentName = UnknownAuthor
			items[i].FlatID = UnknownFlat
		}
	}

	d.mu.Lock()
	d.complaints = items
	d.mu.Unlock()
	return slices.Clone(items), nil
}

// List returns the loaded complaints, optionally narrowed to one status tab.
func (d *ComplaintDesk) List(status lifecycle.ComplaintStatus) []ComplaintItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	if status == "" {
		return slices.Clone(d.complaints)
	}
	out := make([]ComplaintItem, 0, len(d.complaints))
	for _, c := range d.complaints {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

// Get returns a loaded complaint.
func (d *ComplaintDesk) Get(id string) (ComplaintItem, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i := d.index(id); i >= 0 {
		return d.complaints[i], true
	}
	return ComplaintItem{}, false
}

// Open shows a complaint's detail. When society staff open a Received
// complaint it is acknowledged first; a failed acknowledgement is logged and
// the detail still opens with the status it had.
func (d *ComplaintDesk) Open(ctx context.Context, id string) (ComplaintItem, error) {
	item, ok := d.Get(id)
	if !ok {
		return ComplaintItem{}, validation(MsgComplaintNotFound)
	}
	if item.Status == lifecycle.StatusReceived && d.societyActor() == nil {
		if err := d.AcknowledgeReceipt(ctx, id); err != nil {
			if errors.Is(err, ErrViewClosed) {
				return ComplaintItem{}, err
			}
			d.log.Warn("complaint acknowledgement failed", "error", err, "complaint_id", id)
		}
		item, _ = d.Get(id)
	}
	return item, nil
}

// societyActor reports a validation error unless the current identity is
// society staff. Complaint status is managed by the complaint's own society.
func (d *ComplaintDesk) societyActor() error {
	actor, err := d.deps.Identity.Current()
	if err != nil {
		return validation(MsgLoginRequired)
	}
	if actor.Role != identity.RoleSociety {
		return validation(MsgSocietyOnly)
	}
	return nil
}

// AcknowledgeReceipt moves a complaint to Under Review. Repeating it is safe.
func (d *ComplaintDesk) AcknowledgeReceipt(ctx context.Context, id string) error {
	if err := d.societyActor(); err != nil {
		return err
	}
	ctx, cancel := d.bind(ctx)
	defer cancel()

	err := d.api.ChangeComplaintStatus(ctx, backend.StatusChange{ID: id, Status: lifecycle.StatusUnderReview})
	if aliveErr := d.alive(); aliveErr != nil {
		return aliveErr
	}
	if err != nil {
		return &Error{Kind: KindWrite, Message: MsgStatusUpdateFailed, Err: err}
	}
	d.apply(id, func(c *ComplaintItem) { c.Status = lifecycle.StatusUnderReview })
	return nil
}

// ChangeStatus moves a complaint to target. Resolved needs proof images,
// which are uploaded before the change is sent; Dismissed needs a comment.
// On failure the local status is left as it was.
func (d *ComplaintDesk) ChangeStatus(ctx context.Context, id string, target lifecycle.ComplaintStatus, res Resolution) error {
	if err := d.societyActor(); err != nil {
		d.deps.Notifier.Failure(err.Error())
		return err
	}
	if err := lifecycle.CheckEvidence(target, lifecycle.Evidence{
		Comment:     res.Comment,
		ProofImages: len(res.ProofImages),
	}); err != nil {
		d.deps.Notifier.Failure(err.Error())
		return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
	}

	item, ok := d.Get(id)
	if !ok {
		return validation(MsgComplaintNotFound)
	}
	if item.ReadOnly() {
		return &Error{Kind: KindValidation, Message: MsgComplaintClosed, Err: lifecycle.ErrTerminalStatus}
	}
	if err := lifecycle.CheckTransition(item.Status, target); err != nil {
		return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
	}

	d.mu.Lock()
	if d.updating {
		d.mu.Unlock()
		return validation(MsgBusy)
	}
	d.updating = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.updating = false
		d.mu.Unlock()
	}()

	ctx, cancel := d.bind(ctx)
	defer cancel()

	change := backend.StatusChange{ID: id, Status: target}
	switch target {
	case lifecycle.StatusResolved:
		urls, err := d.uploadProof(ctx, res.ProofImages)
		if aliveErr := d.alive(); aliveErr != nil {
			return aliveErr
		}
		if err != nil {
			d.log.Error("proof upload failed", "error", err, "complaint_id", id)
			d.deps.Notifier.Failure(MsgStatusUpdateFailed)
			return &Error{Kind: KindWrite, Message: MsgStatusUpdateFailed, Err: err}
		}
		change.Images = urls
	case lifecycle.StatusDismissed:
		change.Comment = strings.TrimSpace(res.Comment)
	}

	err := d.api.ChangeComplaintStatus(ctx, change)
	if aliveErr := d.alive(); aliveErr != nil {
		return aliveErr
	}
	if err != nil {
		d.log.Error("complaint status change failed", "error", err, "complaint_id", id, "status", string(target))
		d.deps.Notifier.Failure(MsgStatusUpdateFailed)
		return &Error{Kind: KindWrite, Message: MsgStatusUpdateFailed, Err: err}
	}

	d.apply(id, func(c *ComplaintItem) {
		c.Status = target
		if change.Comment != "" {
			c.Comment = change.Comment
		}
		if len(change.Images) > 0 {
			c.Images = change.Images
		}
	})
	d.deps.Notifier.Success(MsgStatusUpdated)
	return nil
}

// FileComplaint lets a resident raise a complaint in their society.
func (d *ComplaintDesk) FileComplaint(ctx context.Context, title, content string) (*backend.Complaint, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, validation(MsgFillAllFields)
	}
	actor, err := d.deps.Identity.Current()
	if err != nil || actor.SocietyCode == "" {
		return nil, validation(MsgLoginRequired)
	}

	d.mu.Lock()
	if d.filing {
		d.mu.Unlock()
		return nil, validation(MsgBusy)
	}
	d.filing = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.filing = false
		d.mu.Unlock()
	}()

	ctx, cancel := d.bind(ctx)
	defer cancel()

	c, err := d.api.PostComplaint(ctx, backend.ComplaintDraft{
		Title:       strings.TrimSpace(title),
		Content:     strings.TrimSpace(content),
		ResidentID:  actor.ID,
		SocietyCode: actor.SocietyCode,
	})
	if aliveErr := d.alive(); aliveErr != nil {
		return nil, aliveErr
	}
	if err != nil {
		we := writeFailure(err, MsgComplaintFailed)
		d.deps.Notifier.Failure(we.Message)
		return nil, we
	}
	d.deps.Notifier.Success(MsgComplaintFiled)
	return c, nil
}

func (d *ComplaintDesk) uploadProof(ctx context.Context, files []assets.File) ([]string, error) {
	if d.deps.Uploader == nil {
		return nil, errors.New("no asset uploader configured")
	}
	d.mu.Lock()
	d.uploading = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.uploading = false
		d.mu.Unlock()
	}()
	return assets.UploadAll(ctx, d.deps.Uploader, files)
}

func (d *ComplaintDesk) apply(id string, fn func(*ComplaintItem)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i := d.index(id); i >= 0 {
		fn(&d.complaints[i])
	}
}

func (d *ComplaintDesk) index(id string) int {
	return slices.IndexFunc(d.complaints, func(c ComplaintItem) bool { return c.ID == id })
}
