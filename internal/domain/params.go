package domain

import (
	"net/url"
	"strconv"
)

// ListParams carries pagination, search and filtering for list endpoints.
// The zero value means "first page, server default page size, no filters".
type ListParams struct {
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
	Search   string `json:"search,omitempty"`
	Status   string `json:"status,omitempty"`
	SortBy   string `json:"sort_by,omitempty"`
	SortDesc bool   `json:"sort_desc,omitempty"`
}

// Query renders the parameters as a query string for the API.
func (p ListParams) Query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.SortBy != "" {
		q.Set("sort_by", p.SortBy)
		if p.SortDesc {
			q.Set("order", "desc")
		}
	}
	return q
}

// LicenseList is one page of licenses plus the overall total.
type LicenseList struct {
	Items []License `json:"items"`
	Total int       `json:"total"`
}

type ActivationList struct {
	Items []Activation `json:"items"`
	Total int          `json:"total"`
}

type SubscriptionList struct {
	Items []Subscription `json:"items"`
	Total int            `json:"total"`
}

type PaymentList struct {
	Items []Payment `json:"items"`
	Total int       `json:"total"`
}
