// Package billing syncs team plans with Stripe. When billing is disabled the
// nil client is a no-op so the rest of the system never branches on it.
package billing

import (
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"
)

type Client struct {
	api    *client.API
	logger *zap.Logger
}

// NewClient returns nil when billing is disabled; all methods are nil-safe.
func NewClient(apiKey string, enabled bool, logger *zap.Logger) *Client {
	if !enabled || apiKey == "" {
		logger.Info("Stripe billing is disabled")
		return nil
	}
	api := &client.API{}
	api.Init(apiKey, nil)
	return &Client{api: api, logger: logger}
}

// EnsureCustomer creates a Stripe customer for a team and returns its id.
func (c *Client) EnsureCustomer(teamName, ownerEmail string) (string, error) {
	if c == nil {
		return "", nil
	}
	params := &stripe.CustomerParams{
		Name:  stripe.String(teamName),
		Email: stripe.String(ownerEmail),
	}
	cust, err := c.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create stripe customer: %w", err)
	}
	c.logger.Info("Created Stripe customer", zap.String("customer_id", cust.ID))
	return cust.ID, nil
}

// SyncPlan records the plan change on the Stripe customer. Subscription
// price mapping lives in Stripe dashboard metadata, not here.
func (c *Client) SyncPlan(customerID, plan string) error {
	if c == nil || customerID == "" {
		return nil
	}
	params := &stripe.CustomerParams{}
	params.AddMetadata("plan", plan)
	if _, err := c.api.Customers.Update(customerID, params); err != nil {
		return fmt.Errorf("failed to update stripe customer: %w", err)
	}
	return nil
}
