package domain

import "time"

// SubscriptionTier enumerates the purchasable plan levels.
type SubscriptionTier string

const (
	TierBasic        SubscriptionTier = "basic"
	TierProfessional SubscriptionTier = "professional"
	TierEnterprise   SubscriptionTier = "enterprise"
)

// Client is a tenant: one paying customer with its own scanners and an
// isolated scan datastore.
type Client struct {
	ID             string
	UserID         string
	BusinessName   string
	DisplayName    string
	BusinessDomain string
	ContactEmail   string
	ContactPhone   *string
	Tier           SubscriptionTier
	APIKey         string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Deactivate flips the active flag. Scanner cascade is handled by the
// provisioning service, not here.
func (c *Client) Deactivate(at time.Time) bool {
	if !c.IsActive {
		return false
	}
	c.IsActive = false
	c.UpdatedAt = at
	return true
}
