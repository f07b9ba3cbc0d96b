package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billed/internal/models"
)

const (
	// BillServiceName is the fully-qualified name of the BillService service.
	BillServiceName = "billed.v1.BillService"
	// AuthServiceName is the fully-qualified name of the AuthService service.
	AuthServiceName = "billed.v1.AuthService"
)

const (
	BillServiceListProcedure   = "/billed.v1.BillService/List"
	BillServiceCreateProcedure = "/billed.v1.BillService/Create"
	BillServiceUpdateProcedure = "/billed.v1.BillService/Update"
	BillServiceDeleteProcedure = "/billed.v1.BillService/Delete"

	AuthServiceLoginProcedure    = "/billed.v1.AuthService/Login"
	AuthServiceRegisterProcedure = "/billed.v1.AuthService/Register"
)

// BillServiceHandler is implemented by the server side of the bills store.
type BillServiceHandler interface {
	List(context.Context, *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error)
	Create(context.Context, *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error)
	Update(context.Context, *connect.Request[UpdateBillRequest]) (*connect.Response[models.Bill], error)
	Delete(context.Context, *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error)
}

// AuthServiceHandler is implemented by the authentication service.
type AuthServiceHandler interface {
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error)
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	list := connect.NewUnaryHandler(BillServiceListProcedure, svc.List, opts...)
	create := connect.NewUnaryHandler(BillServiceCreateProcedure, svc.Create, opts...)
	update := connect.NewUnaryHandler(BillServiceUpdateProcedure, svc.Update, opts...)
	del := connect.NewUnaryHandler(BillServiceDeleteProcedure, svc.Delete, opts...)
	return "/" + BillServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BillServiceListProcedure:
			list.ServeHTTP(w, r)
		case BillServiceCreateProcedure:
			create.ServeHTTP(w, r)
		case BillServiceUpdateProcedure:
			update.ServeHTTP(w, r)
		case BillServiceDeleteProcedure:
			del.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	login := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	register := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceLoginProcedure:
			login.ServeHTTP(w, r)
		case AuthServiceRegisterProcedure:
			register.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// BillServiceClient is a client for the billed.v1.BillService service.
type BillServiceClient struct {
	list   *connect.Client[ListBillsRequest, ListBillsResponse]
	create *connect.Client[CreateBillRequest, CreateBillResponse]
	update *connect.Client[UpdateBillRequest, models.Bill]
	del    *connect.Client[DeleteBillRequest, DeleteBillResponse]
}

// NewBillServiceClient constructs a client for the billed.v1.BillService
// service. baseURL is the server root, e.g. http://localhost:8080.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &BillServiceClient{
		list:   connect.NewClient[ListBillsRequest, ListBillsResponse](httpClient, baseURL+BillServiceListProcedure, opts...),
		create: connect.NewClient[CreateBillRequest, CreateBillResponse](httpClient, baseURL+BillServiceCreateProcedure, opts...),
		update: connect.NewClient[UpdateBillRequest, models.Bill](httpClient, baseURL+BillServiceUpdateProcedure, opts...),
		del:    connect.NewClient[DeleteBillRequest, DeleteBillResponse](httpClient, baseURL+BillServiceDeleteProcedure, opts...),
	}
}

// List calls billed.v1.BillService.List.
func (c *BillServiceClient) List(ctx context.Context, req *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error) {
	return c.list.CallUnary(ctx, req)
}

// Create calls billed.v1.BillService.Create.
func (c *BillServiceClient) Create(ctx context.Context, req *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error) {
	return c.create.CallUnary(ctx, req)
}

// Update calls billed.v1.BillService.Update.
func (c *BillServiceClient) Update(ctx context.Context, req *connect.Request[UpdateBillRequest]) (*connect.Response[models.Bill], error) {
	return c.update.CallUnary(ctx, req)
}

// Delete calls billed.v1.BillService.Delete.
func (c *BillServiceClient) Delete(ctx context.Context, req *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error) {
	return c.del.CallUnary(ctx, req)
}

// AuthServiceClient is a client for the billed.v1.AuthService service.
type AuthServiceClient struct {
	login    *connect.Client[LoginRequest, AuthResponse]
	register *connect.Client[RegisterRequest, AuthResponse]
}

// NewAuthServiceClient constructs a client for the billed.v1.AuthService service.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &AuthServiceClient{
		login:    connect.NewClient[LoginRequest, AuthResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		register: connect.NewClient[RegisterRequest, AuthResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
	}
}

// Login calls billed.v1.AuthService.Login.
func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	return c.login.CallUnary(ctx, req)
}

// Register calls billed.v1.AuthService.Register.
func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error) {
	return c.register.CallUnary(ctx, req)
}
