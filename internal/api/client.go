// Package api exposes the licensing endpoints as typed operations. Reads go
// through the request cache with statically declared tags; writes go straight
// through the transport and invalidate tags on success.
package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/posguard/licadmin/internal/cache"
	"github.com/posguard/licadmin/internal/config"
	"github.com/posguard/licadmin/internal/session"
	"github.com/posguard/licadmin/internal/transport"
)

// Operation identifiers, the first half of every cache key.
const (
	opLicenseList      = "licenses/list"
	opLicenseGet       = "licenses/get"
	opActivationList   = "activations/list"
	opSubscriptionList = "subscriptions/list"
	opPaymentList      = "payments/list"
	opStats            = "stats/dashboard"
	opProfile          = "auth/me"
)

type Client struct {
	cfg     *config.Config
	http    *transport.Client
	cache   *cache.Cache
	session *session.Store
	logger  *slog.Logger
}

func New(cfg *config.Config, http *transport.Client, cc *cache.Cache, sess *session.Store, logger *slog.Logger) *Client {
	return &Client{
		cfg:     cfg,
		http:    http,
		cache:   cc,
		session: sess,
		logger:  logger,
	}
}

// Session returns the session store backing this client.
func (c *Client) Session() *session.Store {
	return c.session
}

// getCached subscribes to (op, args), reads through the cache, and detaches.
// Commands that want to hold an entry alive keep their own subscription.
func getCached[T any](ctx context.Context, c *Client, op string, args any, opts cache.Options) (T, error) {
	var zero T
	sub := c.cache.Subscribe(op, args, opts)
	defer sub.Close()

	v, err := sub.Get(ctx)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected cached type %T", op, v)
	}
	return out, nil
}
