package store

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/billed/internal/api"
	"github.com/mmynk/billed/internal/models"
)

// Client talks to the bills API over Connect.
type Client struct {
	bills *api.BillServiceClient
	auth  *api.AuthServiceClient
	token string
}

var _ Store = (*Client)(nil)

// New creates a client for the API rooted at baseURL.
func New(httpClient connect.HTTPClient, baseURL string) *Client {
	return &Client{
		bills: api.NewBillServiceClient(httpClient, baseURL),
		auth:  api.NewAuthServiceClient(httpClient, baseURL),
	}
}

// WithToken returns a copy of the client that authenticates as the owner of token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Bills returns the bills resource.
func (c *Client) Bills() BillsResource {
	return &billsResource{c: c}
}

// Login authenticates through the login form of the given account type.
func (c *Client) Login(ctx context.Context, email, password string, role models.Role) (*api.AuthResponse, error) {
	resp, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    email,
		Password: password,
		Type:     role,
	}))
	if err != nil {
		return nil, wrap(err)
	}
	return resp.Msg, nil
}

// Register creates an employee account.
func (c *Client) Register(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	resp, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:    email,
		Password: password,
	}))
	if err != nil {
		return nil, wrap(err)
	}
	return resp.Msg, nil
}

func authorize[T any](c *Client, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if c.token != "" {
		req.Header().Set("Authorization", "Bearer "+c.token)
	}
	return req
}

type billsResource struct {
	c *Client
}

func (r *billsResource) List(ctx context.Context) ([]models.Bill, error) {
	resp, err := r.c.bills.List(ctx, authorize(r.c, &api.ListBillsRequest{}))
	if err != nil {
		return nil, wrap(err)
	}
	if resp.Msg.Bills == nil {
		return []models.Bill{}, nil
	}
	return resp.Msg.Bills, nil
}

func (r *billsResource) Create(ctx context.Context, req *api.CreateBillRequest) (*api.CreateBillResponse, error) {
	resp, err := r.c.bills.Create(ctx, authorize(r.c, req))
	if err != nil {
		return nil, wrap(err)
	}
	return resp.Msg, nil
}

func (r *billsResource) Update(ctx context.Context, req *api.UpdateBillRequest) (*models.Bill, error) {
	resp, err := r.c.bills.Update(ctx, authorize(r.c, req))
	if err != nil {
		return nil, wrap(err)
	}
	return resp.Msg, nil
}

func (r *billsResource) Delete(ctx context.Context, req *api.DeleteBillRequest) error {
	if _, err := r.c.bills.Delete(ctx, authorize(r.c, req)); err != nil {
		return wrap(err)
	}
	return nil
}
