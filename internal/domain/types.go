package domain

import "time"

// User is the authenticated operator. Phone is the login key; the OTP flow
// verifies it, so it is the canonical contact attribute.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// License statuses as reported by the API.
const (
	LicenseActive    = "active"
	LicenseSuspended = "suspended"
	LicenseRevoked   = "revoked"
	LicenseExpired   = "expired"
)

type License struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Customer    string    `json:"customer"`
	Plan        string    `json:"plan"`
	Status      string    `json:"status"`
	DeviceLimit int       `json:"device_limit"`
	Activations int       `json:"activations"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Activation struct {
	ID          string    `json:"id"`
	LicenseID   string    `json:"license_id"`
	DeviceID    string    `json:"device_id"`
	DeviceName  string    `json:"device_name"`
	ActivatedAt time.Time `json:"activated_at"`
	Revoked     bool      `json:"revoked"`
}

type Subscription struct {
	ID          string    `json:"id"`
	LicenseID   string    `json:"license_id"`
	Plan        string    `json:"plan"`
	Status      string    `json:"status"`
	StartedAt   time.Time `json:"started_at"`
	RenewsAt    time.Time `json:"renews_at"`
	AmountCents int64     `json:"amount_cents"`
}

type Payment struct {
	ID             string    `json:"id"`
	SubscriptionID string    `json:"subscription_id"`
	AmountCents    int64     `json:"amount_cents"`
	Method         string    `json:"method"`
	Reference      string    `json:"reference"`
	PaidAt         time.Time `json:"paid_at"`
}

// DashboardStats is the flattened client shape of the aggregate statistics
// endpoint; the server nests these under licenses/devices/billing.
type DashboardStats struct {
	TotalLicenses     int   `json:"total_licenses"`
	ActiveLicenses    int   `json:"active_licenses"`
	ExpiringSoon      int   `json:"expiring_soon"`
	TotalDevices      int   `json:"total_devices"`
	OpenInvoices      int   `json:"open_invoices"`
	RevenueCentsMonth int64 `json:"revenue_cents_month"`
}

type LicenseRequest struct {
	Customer    string     `json:"customer"`
	Plan        string     `json:"plan"`
	DeviceLimit int        `json:"device_limit"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type PaymentRequest struct {
	SubscriptionID string `json:"subscription_id"`
	AmountCents    int64  `json:"amount_cents"`
	Method         string `json:"method"`
	Reference      string `json:"reference,omitempty"`
}
