package events

import "time"

type NoticeApproved struct {
	NoticeID    string    `json:"notice_id"`
	SocietyCode string    `json:"society_code"`
	ApprovedBy  string    `json:"approved_by"`
	ApprovedAt  time.Time `json:"approved_at"`
}

type VoteRecorded struct {
	NoticeID string    `json:"notice_id"`
	OptionID string    `json:"option_id"`
	VoterID  string    `json:"voter_id"`
	VotedAt  time.Time `json:"voted_at"`
}

type ComplaintStatusChanged struct {
	ComplaintID string    `json:"complaint_id"`
	SocietyCode string    `json:"society_code"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	ChangedBy   string    `json:"changed_by"`
	ChangedAt   time.Time `json:"changed_at"`
}
