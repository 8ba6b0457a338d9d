package api

import (
	"context"
	"net/http"

	"github.com/posguard/licadmin/internal/cache"
	"github.com/posguard/licadmin/internal/domain"
)

type subscriptionListPayload struct {
	Subscriptions []domain.Subscription `json:"subscriptions"`
	Meta          struct {
		Total int `json:"total"`
	} `json:"meta"`
}

// ListSubscriptions returns one page of annual subscriptions.
func (c *Client) ListSubscriptions(ctx context.Context, params domain.ListParams) (*domain.SubscriptionList, error) {
	return getCached[*domain.SubscriptionList](ctx, c, opSubscriptionList, params, cache.Options{
		TTL:  c.cfg.ListTTL,
		Tags: []cache.Tag{{Type: cache.TagSubscriptions}},
		Fetch: func(ctx context.Context) (any, []cache.Tag, error) {
			var payload subscriptionListPayload
			if err := c.http.Do(ctx, http.MethodGet, "/api/subscriptions", params.Query(), nil, &payload); err != nil {
				return nil, nil, err
			}
			tags := make([]cache.Tag, 0, len(payload.Subscriptions))
			for _, s := range payload.Subscriptions {
				tags = append(tags, cache.Tag{Type: cache.TagSubscriptions, ID: s.ID})
			}
			list := &domain.SubscriptionList{Items: payload.Subscriptions, Total: payload.Meta.Total}
			return list, tags, nil
		},
	})
}

// RenewSubscription extends a subscription by one term.
func (c *Client) RenewSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := c.http.Do(ctx, http.MethodPost, "/api/subscriptions/"+id+"/renew", nil, nil, &sub); err != nil {
		return nil, err
	}
	c.cache.InvalidateTags([]cache.Tag{
		{Type: cache.TagSubscriptions, ID: id},
		{Type: cache.TagStats},
	})
	return &sub, nil
}
