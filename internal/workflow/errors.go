package workflow

import (
	"errors"

	"github.com/societyhub/backend/internal/backend"
)

// Kind classifies a workflow failure.
type Kind int

const (
	// KindValidation failures are caught before any network call.
	KindValidation Kind = iota + 1
	// KindWrite failures come from submit, approve, vote or status change.
	KindWrite
	// KindFetch failures come from loading a primary list.
	KindFetch
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindWrite:
		return "write"
	case KindFetch:
		return "fetch"
	default:
		return "unknown"
	}
}

// Error is the user-facing failure of a workflow operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a workflow Error of kind k.
func IsKind(err error, k Kind) bool {
	var we *Error
	return errors.As(err, &we) && we.Kind == k
}

// User-facing messages.
const (
	MsgFillAllFields      = "Please fill all fields before submitting."
	MsgLoginToVote        = "You must be logged in to vote"
	MsgLoginRequired      = "You must be logged in to do that"
	MsgStaffOnly          = "Only society or federation staff can do that"
	MsgSocietyOnly        = "Only society staff can do that"
	MsgVoteInProgress     = "A vote is already in progress"
	MsgBusy               = "Please wait for the current request to finish"
	MsgVoteRecorded       = "Vote recorded!"
	MsgVotingFailed       = "Voting failed"
	MsgLoadPollOptions    = "Failed to load poll options"
	MsgPollNeedsOptions   = "Please add at least one poll option."
	MsgNoticeSubmitted    = "Notice submitted for approval"
	MsgNoticeSubmitFailed = "Failed to submit notice"
	MsgNoticePosted       = "Notice posted"
	MsgNoticePostFailed   = "Failed to post notice"
	MsgNoticeUpdated      = "Notice updated"
	MsgNoticeUpdateFailed = "Failed to update notice"
	MsgNoticeApproved     = "Notice approved"
	MsgApprovalFailed     = "Approval failed"
	MsgLoadNotices        = "Failed to load notices"
	MsgUploadFailed       = "Failed to upload images. Please try again."
	MsgLoadComplaints     = "Failed to load complaints"
	MsgComplaintNotFound  = "Complaint not found"
	MsgComplaintClosed    = "This complaint is closed and can no longer be updated."
	MsgStatusUpdated      = "Status updated"
	MsgStatusUpdateFailed = "Failed to update status. Please try again."
	MsgComplaintFiled     = "Complaint submitted"
	MsgComplaintFailed    = "Failed to submit complaint"
	MsgLoadBlogs          = "Failed to load blogs"
	MsgBlogPublished      = "Blog published"
	MsgBlogFailed         = "Failed to save blog"
	MsgBlogDeleted        = "Blog deleted"
	MsgBlogDeleteFailed   = "Failed to delete blog"
	MsgLoadDocuments      = "Failed to load documents"
	MsgDocumentUploaded   = "Document uploaded"
	MsgDocumentFailed     = "Failed to upload document"
	MsgDocumentDeleted    = "Document deleted"
	MsgDocumentDelFailed  = "Failed to delete document"
)

// Author placeholders used when enrichment cannot resolve a name.
const (
	CommitteeMember = "Committee Member"
	UnknownAuthor   = "Unknown"
	UnknownFlat     = "N/A"
)

func validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

// writeFailure prefers the server's own message over the fallback.
func writeFailure(err error, fallback string) *Error {
	msg := backend.ServerMessage(err)
	if msg == "" {
		msg = fallback
	}
	return &Error{Kind: KindWrite, Message: msg, Err: err}
}

func fetchFailure(err error, msg string) *Error {
	return &Error{Kind: KindFetch, Message: msg, Err: err}
}
