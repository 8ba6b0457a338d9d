package api

import (
	"context"
	"net/http"

	"github.com/posguard/licadmin/internal/cache"
	"github.com/posguard/licadmin/internal/domain"
	"github.com/posguard/licadmin/internal/transport"
)

type paymentListPayload struct {
	Payments []domain.Payment `json:"payments"`
	Meta     struct {
		Total int `json:"total"`
	} `json:"meta"`
}

// ListPayments returns one page of recorded payments.
func (c *Client) ListPayments(ctx context.Context, params domain.ListParams) (*domain.PaymentList, error) {
	return getCached[*domain.PaymentList](ctx, c, opPaymentList, params, cache.Options{
		TTL:  c.cfg.ListTTL,
		Tags: []cache.Tag{{Type: cache.TagPayments}},
		Fetch: func(ctx context.Context) (any, []cache.Tag, error) {
			var payload paymentListPayload
			if err := c.http.Do(ctx, http.MethodGet, "/api/payments", params.Query(), nil, &payload); err != nil {
				return nil, nil, err
			}
			list := &domain.PaymentList{Items: payload.Payments, Total: payload.Meta.Total}
			return list, nil, nil
		},
	})
}

// CreatePayment records a payment against a subscription. The request
// carries a client-generated idempotency key so a retried submission is
// recorded once.
func (c *Client) CreatePayment(ctx context.Context, req domain.PaymentRequest) (*domain.Payment, error) {
	var payment domain.Payment
	err := c.http.Do(ctx, http.MethodPost, "/api/payments", nil, req, &payment,
		transport.WithIdempotencyKey(transport.NewIdempotencyKey()))
	if err != nil {
		return nil, err
	}
	c.cache.InvalidateTags([]cache.Tag{
		{Type: cache.TagPayments},
		{Type: cache.TagSubscriptions, ID: req.SubscriptionID},
		{Type: cache.TagStats},
	})
	return &payment, nil
}
