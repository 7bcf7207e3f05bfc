package lifecycle

import "errors"

// NoticeType classifies a notice board post.
type NoticeType string

const (
	NoticeAnnouncement NoticeType = "announcement"
	NoticeGeneral      NoticeType = "notice"
	NoticePoll         NoticeType = "poll"
	NoticeLostAndFound NoticeType = "lost_and_found"
)

var ErrUnknownNoticeType = errors.New("unknown notice type")

// NoticeTypes lists the notice types in the order the boards offer them.
var NoticeTypes = []NoticeType{
	NoticeAnnouncement,
	NoticeGeneral,
	NoticePoll,
	NoticeLostAndFound,
}

// Valid reports whether t is a known notice type.
func (t NoticeType) Valid() bool {
	for _, known := range NoticeTypes {
		if known == t {
			return true
		}
	}
	return false
}

// Label is the board heading used for a notice type.
func (t NoticeType) Label() string {
	switch t {
	case NoticeAnnouncement:
		return "Announcement"
	case NoticeGeneral:
		return "Notice"
	case NoticePoll:
		return "Poll"
	case NoticeLostAndFound:
		return "Lost & Found"
	default:
		return string(t)
	}
}

// Scope kinds own notices and blogs.
const (
	ScopeSociety    = "society"
	ScopeFederation = "federation"
)
