package domain

import (
	"strings"
	"time"
)

// Profile is the account data kept for an identity verified by the provider.
// AddressLine is the field onboarding fills in.
type Profile struct {
	UserID      string
	Email       string
	DisplayName string
	AddressLine string
	CreatedAt   time.Time
}

// NeedsOnboarding is true until the profile has an address.
func (p Profile) NeedsOnboarding() bool {
	return strings.TrimSpace(p.AddressLine) == ""
}

// Session is what a successful sign-in hands back to the caller.
type Session struct {
	Credential   string
	ExpiresAt    time.Time
	IsNewAccount bool
	IsProvider   bool
}
