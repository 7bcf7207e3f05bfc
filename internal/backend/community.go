package backend

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Blogs(ctx context.Context, societyCode string) ([]Blog, error) {
	var out []Blog
	err := c.do(ctx, http.MethodGet, "/blogs/all-blogs?society_code="+url.QueryEscape(societyCode), nil, &out)
	return out, err
}

func (c *Client) BlogAuthor(ctx context.Context, userID string) (string, error) {
	var out Author
	err := c.do(ctx, http.MethodGet, "/blogs/author-name/"+url.PathEscape(userID), nil, &out)
	return out.AuthorName, err
}

func (c *Client) AddBlog(ctx context.Context, draft BlogDraft) (*Blog, error) {
	var out Blog
	if err := c.do(ctx, http.MethodPost, "/blogs/add-blog", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddAdminBlog posts a blog on behalf of the society committee.
func (c *Client) AddAdminBlog(ctx context.Context, draft BlogDraft) (*Blog, error) {
	var out Blog
	if err := c.do(ctx, http.MethodPost, "/blogs/add-admin-blog", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBlog(ctx context.Context, id string, draft BlogDraft) (*Blog, error) {
	var out Blog
	if err := c.do(ctx, http.MethodPut, "/blogs/update-blog/"+url.PathEscape(id), draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBlog(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/blogs/delete-blog/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Documents(ctx context.Context, societyCode string) ([]Document, error) {
	var out []Document
	err := c.do(ctx, http.MethodGet, "/documents/get?society_code="+url.QueryEscape(societyCode), nil, &out)
	return out, err
}

func (c *Client) PostDocument(ctx context.Context, draft DocumentDraft) (*Document, error) {
	var out Document
	if err := c.do(ctx, http.MethodPost, "/documents/post", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/documents/delete/"+url.PathEscape(id), nil, nil)
}
