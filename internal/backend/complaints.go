package backend

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Complaints(ctx context.Context, societyCode string) ([]Complaint, error) {
	var out []Complaint
	err := c.do(ctx, http.MethodGet, "/complaints/get-complaints?society_code="+url.QueryEscape(societyCode), nil, &out)
	return out, err
}

func (c *Client) PostComplaint(ctx context.Context, draft ComplaintDraft) (*Complaint, error) {
	var out Complaint
	if err := c.do(ctx, http.MethodPost, "/complaints/post-complaint", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChangeComplaintStatus(ctx context.Context, change StatusChange) error {
	return c.do(ctx, http.MethodPut, "/complaints/change-status", change, nil)
}

// ComplaintResident resolves the resident who filed a complaint.
func (c *Client) ComplaintResident(ctx context.Context, residentID string) (Resident, error) {
	var out Resident
	err := c.do(ctx, http.MethodGet, "/complaints/get-resident?id="+url.QueryEscape(residentID), nil, &out)
	return out, err
}
