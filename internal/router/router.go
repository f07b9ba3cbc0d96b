// Package router maps screen paths to views and containers and serves
// them over HTTP.
//
// A container action that navigates ends the request with a 303 redirect
// to the target screen, whose GET handler renders it afresh.
package router

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mmynk/billed/internal/containers"
	"github.com/mmynk/billed/internal/models"
	"github.com/mmynk/billed/internal/routes"
	"github.com/mmynk/billed/internal/session"
	"github.com/mmynk/billed/internal/store"
	"github.com/mmynk/billed/internal/views"
)

// maxUploadSize bounds the multipart body of the new bill form.
const maxUploadSize = 10 << 20

// Config holds the router dependencies.
type Config struct {
	// Store returns the bills store acting as the owner of token.
	// Nil means the store is unavailable.
	Store func(token string) store.Store

	// Accounts logs users in. Nil disables the login form.
	Accounts containers.Accounts

	Sessions *session.Manager

	// Receipts serves locally stored receipt files. Optional.
	Receipts http.Handler

	Logger *slog.Logger
}

// Router is the web application.
type Router struct {
	store    func(token string) store.Store
	accounts containers.Accounts
	sessions *session.Manager
	receipts http.Handler
	logger   *slog.Logger
}

// New creates a router.
func New(cfg Config) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		store:    cfg.Store,
		accounts: cfg.Accounts,
		sessions: cfg.Sessions,
		receipts: cfg.Receipts,
		logger:   logger,
	}
}

// Routes returns the HTTP handler of the web application.
func (rt *Router) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", rt.handleLoginPage)
	mux.HandleFunc("POST /{$}", rt.handleLogin)
	mux.HandleFunc("POST /logout", rt.handleLogout)

	mux.HandleFunc("GET "+routes.Bills.String(), rt.employee(rt.handleBills))
	mux.HandleFunc("POST "+routes.Bills.String()+"/new", rt.employee(rt.handleClickNewBill))
	mux.HandleFunc("GET "+routes.NewBill.String(), rt.employee(rt.handleNewBillPage))
	mux.HandleFunc("POST "+routes.NewBill.String(), rt.employee(rt.handleNewBill))

	mux.HandleFunc("GET "+routes.Dashboard.String(), rt.admin(rt.handleDashboard))
	mux.HandleFunc("POST "+routes.Dashboard.String()+"/{id}", rt.admin(rt.handleReview))

	if rt.receipts != nil {
		mux.Handle("GET /receipts/", rt.receipts)
	}

	mux.HandleFunc("/", rt.handleUnknown)
	return mux
}

// OnNavigate sends the browser to path.
func (rt *Router) OnNavigate(w http.ResponseWriter, r *http.Request, path routes.Path) {
	http.Redirect(w, r, path.String(), http.StatusSeeOther)
}

// home is the first screen of a role.
func home(role models.Role) routes.Path {
	if role == models.RoleAdmin {
		return routes.Dashboard
	}
	return routes.Bills
}

// navigator records the navigation a container asks for.
type navigator struct {
	path routes.Path
}

func (n *navigator) to(path routes.Path) {
	n.path = path
}

// follow redirects to the recorded path, if any.
func (rt *Router) follow(w http.ResponseWriter, r *http.Request, n *navigator) bool {
	if n.path == "" {
		return false
	}
	rt.OnNavigate(w, r, n.path)
	return true
}

// options builds the container dependencies for one request.
func (rt *Router) options(s *session.Session, n *navigator) containers.Options {
	opts := containers.Options{
		OnNavigate: n.to,
		Session:    s,
		Logger:     rt.logger,
	}
	if rt.store != nil {
		token := ""
		if s != nil {
			token = s.Token
		}
		opts.Store = rt.store(token)
	}
	return opts
}

// ClientStore adapts a bills API client to Config.Store.
func ClientStore(c *store.Client) func(token string) store.Store {
	return func(token string) store.Store {
		return c.WithToken(token)
	}
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, s *session.Session)

// employee and admin gate a screen by role. Anonymous users go to the
// login screen, users of the other role go to their own home.
func (rt *Router) employee(next sessionHandler) http.HandlerFunc {
	return rt.require(models.RoleEmployee, next)
}

func (rt *Router) admin(next sessionHandler) http.HandlerFunc {
	return rt.require(models.RoleAdmin, next)
}

func (rt *Router) require(role models.Role, next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := rt.sessions.Load(r)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				rt.logger.Warn("Dropping invalid session", "error", err)
				rt.sessions.Clear(w)
			}
			rt.OnNavigate(w, r, routes.Login)
			return
		}
		if s.Type != role {
			rt.OnNavigate(w, r, home(s.Type))
			return
		}
		next(w, r, s)
	}
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("Failed to render page", "path", r.URL.Path, "error", err)
	}
}

// errorMessage is the text shown for a failed store call.
func errorMessage(err error) string {
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		return storeErr.Error()
	}
	return err.Error()
}

func (rt *Router) handleUnknown(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusNotFound, views.Routes(views.RouteData{Pathname: routes.Path(r.URL.Path)}))
}
