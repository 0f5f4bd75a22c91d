package api

import (
	"log/slog"

	"github.com/sellerdesk/sellerdesk/internal/client"
	"github.com/sellerdesk/sellerdesk/internal/session"
)

// API groups the typed endpoint surfaces over one resilient client and one
// session store.
type API struct {
	c      *client.Client
	store  *session.Store
	logger *slog.Logger
}

// New creates the API surface.
func New(c *client.Client, store *session.Store, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{c: c, store: store, logger: logger}
}

// Client exposes the underlying resilient client for raw requests.
func (a *API) Client() *client.Client {
	return a.c
}
