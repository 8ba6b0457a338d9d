package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/posguard/licadmin/internal/transport"
)

// ActivationEvent is one entry on the live activation feed.
type ActivationEvent struct {
	Type       string    `json:"type"` // "activated" or "revoked"
	LicenseID  string    `json:"license_id"`
	LicenseKey string    `json:"license_key"`
	DeviceID   string    `json:"device_id"`
	DeviceName string    `json:"device_name"`
	At         time.Time `json:"at"`
}

// WatchActivations streams device activation events until ctx is done or the
// connection drops. The bearer token rides on the websocket handshake; a
// rejected handshake ends the session like any other 401.
func (c *Client) WatchActivations(ctx context.Context, fn func(ActivationEvent)) error {
	tok, ok := c.session.Token()
	if !ok {
		return transport.ErrNotAuthenticated
	}
	if c.session.Expired(time.Now()) {
		c.session.Logout()
		return transport.ErrSessionExpired
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+tok)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.WSBaseURL+"/ws/activations", header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			c.session.Logout()
			return transport.ErrUnauthorized
		}
		return fmt.Errorf("dial activation stream: %w", err)
	}
	defer conn.Close()

	// Close the connection when the caller gives up so ReadJSON unblocks.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var ev ActivationEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("activation stream: %w", err)
		}
		fn(ev)
	}
}
