package upstream

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// BillingDirectory is the read contract of the billing service.
type BillingDirectory struct {
	c *Client
}

func NewBillingDirectory(baseURL string, timeout time.Duration, log *zap.Logger) *BillingDirectory {
	return &BillingDirectory{
		c: NewClient(Endpoint{Name: "billing-service", BaseURL: baseURL, Timeout: timeout}, log),
	}
}

// List returns all billing accounts, falling back to an empty list.
func (d *BillingDirectory) List(ctx context.Context) ([]map[string]any, bool) {
	var out []map[string]any
	if err := d.c.getJSON(ctx, "/billing-accounts", &out); err != nil {
		d.c.fallback("list-billing-accounts", err)
		return []map[string]any{}, false
	}
	return out, true
}

func (d *BillingDirectory) Ping(ctx context.Context) bool {
	return d.c.ping(ctx, "/billing-accounts")
}
