package api

import (
	"context"
	"net/http"

	"github.com/posguard/licadmin/internal/cache"
	"github.com/posguard/licadmin/internal/domain"
)

type activationListPayload struct {
	Activations []domain.Activation `json:"activations"`
	Meta        struct {
		Total int `json:"total"`
	} `json:"meta"`
}

type activationListArgs struct {
	LicenseID string `json:"license_id"`
	domain.ListParams
}

// ListActivations returns the device activations of one license. The
// activation tag is keyed by license, so revoking a device only disturbs
// that license's activation pages.
func (c *Client) ListActivations(ctx context.Context, licenseID string, params domain.ListParams) (*domain.ActivationList, error) {
	args := activationListArgs{LicenseID: licenseID, ListParams: params}
	return getCached[*domain.ActivationList](ctx, c, opActivationList, args, cache.Options{
		TTL:  c.cfg.ListTTL,
		Tags: []cache.Tag{{Type: cache.TagActivations, ID: licenseID}},
		Fetch: func(ctx context.Context) (any, []cache.Tag, error) {
			var payload activationListPayload
			path := "/api/licenses/" + licenseID + "/activations"
			if err := c.http.Do(ctx, http.MethodGet, path, params.Query(), nil, &payload); err != nil {
				return nil, nil, err
			}
			list := &domain.ActivationList{Items: payload.Activations, Total: payload.Meta.Total}
			return list, nil, nil
		},
	})
}

// RevokeActivation detaches a device from a license.
func (c *Client) RevokeActivation(ctx context.Context, licenseID, deviceID string) error {
	path := "/api/licenses/" + licenseID + "/activations/" + deviceID + "/revoke"
	if err := c.http.Do(ctx, http.MethodPost, path, nil, nil, nil); err != nil {
		return err
	}
	c.cache.InvalidateTags([]cache.Tag{
		{Type: cache.TagActivations, ID: licenseID},
		{Type: cache.TagLicenses, ID: licenseID},
		{Type: cache.TagStats},
	})
	return nil
}
