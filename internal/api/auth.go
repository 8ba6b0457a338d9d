package api

import (
	"context"
	"net/http"

	"github.com/posguard/licadmin/internal/cache"
	"github.com/posguard/licadmin/internal/domain"
	"github.com/posguard/licadmin/internal/transport"
)

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type otpRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code,omitempty"`
}

type loginPayload struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login authenticates with phone and password and establishes the session.
func (c *Client) Login(ctx context.Context, phone, password string) (*domain.User, error) {
	var out loginPayload
	err := c.http.Do(ctx, http.MethodPost, "/api/auth/login", nil,
		loginRequest{Phone: phone, Password: password}, &out, transport.WithoutAuth())
	if err != nil {
		return nil, err
	}
	user := out.User
	c.session.SetCredentials(out.Token, &user)
	return &user, nil
}

// RequestOTP asks the server to send a one-time code to the given phone.
func (c *Client) RequestOTP(ctx context.Context, phone string) error {
	return c.http.Do(ctx, http.MethodPost, "/api/auth/otp/request", nil,
		otpRequest{Phone: phone}, nil, transport.WithoutAuth())
}

// VerifyOTP exchanges a one-time code for a session.
func (c *Client) VerifyOTP(ctx context.Context, phone, code string) (*domain.User, error) {
	var out loginPayload
	err := c.http.Do(ctx, http.MethodPost, "/api/auth/otp/verify", nil,
		otpRequest{Phone: phone, Code: code}, &out, transport.WithoutAuth())
	if err != nil {
		return nil, err
	}
	user := out.User
	c.session.SetCredentials(out.Token, &user)
	return &user, nil
}

// Me fetches the full profile and refreshes the stored identity fields.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	if _, ok := c.session.Token(); !ok {
		return nil, transport.ErrNotAuthenticated
	}
	user, err := getCached[*domain.User](ctx, c, opProfile, nil, cache.Options{
		TTL:  c.cfg.DetailTTL,
		Tags: []cache.Tag{{Type: cache.TagProfile}},
		Fetch: func(ctx context.Context) (any, []cache.Tag, error) {
			var u domain.User
			if err := c.http.Do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &u); err != nil {
				return nil, nil, err
			}
			return &u, nil, nil
		},
	})
	if err != nil {
		return nil, err
	}
	c.session.UpdateUser(user)
	return user, nil
}

// Logout revokes the session server-side (best-effort) and always clears
// local state and cached data.
func (c *Client) Logout(ctx context.Context) {
	if _, ok := c.session.Token(); ok {
		if err := c.http.Do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil); err != nil {
			c.logger.Warn("server-side logout failed", "error", err)
		}
	}
	c.session.Logout()
	c.cache.Clear()
}
