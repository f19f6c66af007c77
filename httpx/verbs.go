package httpx

import (
	"context"
	"net/http"
)

// Get, Post, Put, Patch and Delete build a request with NewRequest and send it
// with DoStatus. The caller owns the returned body.

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.send(ctx, http.MethodGet, path, opts)
}

func (c *Client) Post(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, path, opts)
}

func (c *Client) Put(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.send(ctx, http.MethodPut, path, opts)
}

func (c *Client) Patch(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.send(ctx, http.MethodPatch, path, opts)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.send(ctx, http.MethodDelete, path, opts)
}

func (c *Client) send(ctx context.Context, method, path string, opts []RequestOption) (*http.Response, error) {
	req, err := c.NewRequest(ctx, method, path, opts...)
	if err != nil {
		return nil, err
	}
	return c.DoStatus(req)
}

// GetJSON issues a GET and decodes the JSON body into dst.
func (c *Client) GetJSON(ctx context.Context, path string, dst any, opts ...RequestOption) error {
	req, err := c.NewRequest(ctx, http.MethodGet, path, opts...)
	if err != nil {
		return err
	}
	_, err = c.DoJSONInto(req, dst)
	return err
}
