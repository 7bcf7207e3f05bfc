package backend

import (
	"context"
	"net/http"
	"net/url"
)

// AllNotices lists every notice of a society, approved or not.
func (c *Client) AllNotices(ctx context.Context, societyCode string) ([]Notice, error) {
	var out []Notice
	err := c.do(ctx, http.MethodGet, "/notices/all-notices?society_id="+url.QueryEscape(societyCode), nil, &out)
	return out, err
}

func (c *Client) FederationNotices(ctx context.Context, federationID string) ([]Notice, error) {
	var out []Notice
	err := c.do(ctx, http.MethodGet, "/notices/federation-notice/get/"+url.PathEscape(federationID), nil, &out)
	return out, err
}

// UserNotices lists the notices a resident submitted.
func (c *Client) UserNotices(ctx context.Context, userID string) ([]Notice, error) {
	var out []Notice
	err := c.do(ctx, http.MethodGet, "/notices/user-notices?user_id="+url.QueryEscape(userID), nil, &out)
	return out, err
}

// PostUserNotice submits a resident notice for approval. Only 201 counts as
// success.
func (c *Client) PostUserNotice(ctx context.Context, draft NoticeDraft) (*Notice, error) {
	var out Notice
	if err := c.doStatus(ctx, http.MethodPost, "/notices/post-user-notice", draft, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// PostNotice publishes a staff notice.
func (c *Client) PostNotice(ctx context.Context, draft NoticeDraft) (*Notice, error) {
	var out Notice
	if err := c.do(ctx, http.MethodPost, "/notices/post-notice", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EditNotice(ctx context.Context, id string, edit NoticeEdit) (*Notice, error) {
	var out Notice
	if err := c.do(ctx, http.MethodPut, "/notices/edit-notice/"+url.PathEscape(id), edit, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ApproveNotice(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/notices/approve-notice/"+url.PathEscape(id), nil, nil)
}

func (c *Client) PostFederationNotice(ctx context.Context, draft FederationNoticeDraft) (*Notice, error) {
	var out Notice
	if err := c.do(ctx, http.MethodPost, "/notices/federation-notice/post", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateFederationNotice(ctx context.Context, id string, edit NoticeEdit) (*Notice, error) {
	var out Notice
	if err := c.do(ctx, http.MethodPut, "/notices/federation-notice/update/"+url.PathEscape(id), edit, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NoticeAuthor resolves a notice author's display name and flat.
func (c *Client) NoticeAuthor(ctx context.Context, userID string) (Author, error) {
	var out Author
	err := c.do(ctx, http.MethodGet, "/notices/user-name/"+url.PathEscape(userID), nil, &out)
	return out, err
}

// FederationOf returns the federation code a society belongs to.
func (c *Client) FederationOf(ctx context.Context, societyCode string) (string, error) {
	var out struct {
		FederationID string `json:"federation_id"`
	}
	err := c.do(ctx, http.MethodGet, "/notices/federation-id/"+url.PathEscape(societyCode), nil, &out)
	return out.FederationID, err
}

func (c *Client) PollOptions(ctx context.Context, noticeID string) ([]PollOption, error) {
	var out []PollOption
	err := c.do(ctx, http.MethodGet, "/notices/poll-options/"+url.PathEscape(noticeID), nil, &out)
	return out, err
}

func (c *Client) Vote(ctx context.Context, req VoteRequest) error {
	return c.do(ctx, http.MethodPost, "/notices/vote", req, nil)
}
