// Package containers binds the rendered screens to behavior: store calls,
// navigation and session reads.
//
// Containers are created per request. Every collaborator is injected
// through Options; a nil Store means the store is unavailable.
package containers

import (
	"log/slog"

	"github.com/mmynk/billed/internal/routes"
	"github.com/mmynk/billed/internal/session"
	"github.com/mmynk/billed/internal/store"
)

// Navigator moves the user to another screen.
type Navigator func(path routes.Path)

// Options are the dependencies shared by every container.
type Options struct {
	Store      store.Store
	OnNavigate Navigator
	Session    *session.Session
	Logger     *slog.Logger
}

func (o Options) navigate(path routes.Path) {
	if o.OnNavigate != nil {
		o.OnNavigate(path)
	}
}

func (o Options) email() string {
	if o.Session == nil {
		return ""
	}
	return o.Session.Email
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Element is a clicked element, reduced to its attributes.
type Element struct {
	Attrs map[string]string
}

// Attr returns the value of the attribute name, or "".
func (e Element) Attr(name string) string {
	return e.Attrs[name]
}
