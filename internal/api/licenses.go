package api

import (
	"context"
	"net/http"

	"github.com/posguard/licadmin/internal/cache"
	"github.com/posguard/licadmin/internal/domain"
)

// licenseListPayload mirrors the server's list shape; totals arrive nested.
type licenseListPayload struct {
	Licenses []domain.License `json:"licenses"`
	Meta     struct {
		Total int `json:"total"`
	} `json:"meta"`
}

// ListLicenses returns one page of licenses. Results provide the general
// licenses tag plus a per-entity tag for every row, so a targeted write
// invalidates the pages that showed the entity.
func (c *Client) ListLicenses(ctx context.Context, params domain.ListParams) (*domain.LicenseList, error) {
	return getCached[*domain.LicenseList](ctx, c, opLicenseList, params, cache.Options{
		TTL:  c.cfg.ListTTL,
		Tags: []cache.Tag{{Type: cache.TagLicenses}},
		Fetch: func(ctx context.Context) (any, []cache.Tag, error) {
			var payload licenseListPayload
			if err := c.http.Do(ctx, http.MethodGet, "/api/licenses", params.Query(), nil, &payload); err != nil {
				return nil, nil, err
			}
			tags := make([]cache.Tag, 0, len(payload.Licenses))
			for _, l := range payload.Licenses {
				tags = append(tags, cache.Tag{Type: cache.TagLicenses, ID: l.ID})
			}
			list := &domain.LicenseList{Items: payload.Licenses, Total: payload.Meta.Total}
			return list, tags, nil
		},
	})
}

// GetLicense returns a single license by ID.
func (c *Client) GetLicense(ctx context.Context, id string) (*domain.License, error) {
	args := map[string]string{"id": id}
	return getCached[*domain.License](ctx, c, opLicenseGet, args, cache.Options{
		TTL:  c.cfg.DetailTTL,
		Tags: []cache.Tag{{Type: cache.TagLicenses, ID: id}},
		Fetch: func(ctx context.Context) (any, []cache.Tag, error) {
			var lic domain.License
			if err := c.http.Do(ctx, http.MethodGet, "/api/licenses/"+id, nil, nil, &lic); err != nil {
				return nil, nil, err
			}
			return &lic, nil, nil
		},
	})
}

// CreateLicense issues a new license.
func (c *Client) CreateLicense(ctx context.Context, req domain.LicenseRequest) (*domain.License, error) {
	var lic domain.License
	if err := c.http.Do(ctx, http.MethodPost, "/api/licenses", nil, req, &lic); err != nil {
		return nil, err
	}
	c.cache.InvalidateTags([]cache.Tag{
		{Type: cache.TagLicenses},
		{Type: cache.TagStats},
	})
	return &lic, nil
}

// UpdateLicense edits an existing license.
func (c *Client) UpdateLicense(ctx context.Context, id string, req domain.LicenseRequest) (*domain.License, error) {
	var lic domain.License
	if err := c.http.Do(ctx, http.MethodPut, "/api/licenses/"+id, nil, req, &lic); err != nil {
		return nil, err
	}
	c.cache.InvalidateTags([]cache.Tag{
		{Type: cache.TagLicenses, ID: id},
		{Type: cache.TagStats},
	})
	return &lic, nil
}

// RevokeLicense revokes a license and its activations.
func (c *Client) RevokeLicense(ctx context.Context, id string) error {
	if err := c.http.Do(ctx, http.MethodPost, "/api/licenses/"+id+"/revoke", nil, nil, nil); err != nil {
		return err
	}
	c.cache.InvalidateTags([]cache.Tag{
		{Type: cache.TagLicenses, ID: id},
		{Type: cache.TagActivations, ID: id},
		{Type: cache.TagStats},
	})
	return nil
}
