package api

import (
	"context"
	"net/http"

	"github.com/posguard/licadmin/internal/cache"
	"github.com/posguard/licadmin/internal/domain"
)

// statsPayload mirrors the server's nested aggregate shape; the client works
// with the flattened domain.DashboardStats.
type statsPayload struct {
	Licenses struct {
		Total        int `json:"total"`
		Active       int `json:"active"`
		ExpiringSoon int `json:"expiring_soon"`
	} `json:"licenses"`
	Devices struct {
		Total int `json:"total"`
	} `json:"devices"`
	Billing struct {
		OpenInvoices      int   `json:"open_invoices"`
		RevenueCentsMonth int64 `json:"revenue_month_cents"`
	} `json:"billing"`
}

func (p statsPayload) toDomain() *domain.DashboardStats {
	return &domain.DashboardStats{
		TotalLicenses:     p.Licenses.Total,
		ActiveLicenses:    p.Licenses.Active,
		ExpiringSoon:      p.Licenses.ExpiringSoon,
		TotalDevices:      p.Devices.Total,
		OpenInvoices:      p.Billing.OpenInvoices,
		RevenueCentsMonth: p.Billing.RevenueCentsMonth,
	}
}

// Stats returns the dashboard aggregates. These change with every write, so
// the entry carries the shortest TTL and is invalidated by license,
// subscription and payment writes alike.
func (c *Client) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	return getCached[*domain.DashboardStats](ctx, c, opStats, nil, cache.Options{
		TTL:  c.cfg.StatsTTL,
		Tags: []cache.Tag{{Type: cache.TagStats}},
		Fetch: func(ctx context.Context) (any, []cache.Tag, error) {
			var payload statsPayload
			if err := c.http.Do(ctx, http.MethodGet, "/api/stats/dashboard", nil, nil, &payload); err != nil {
				return nil, nil, err
			}
			return payload.toDomain(), nil, nil
		},
	})
}
