package model

import (
	"time"
)

// ActivationCode represents a single-use code that upgrades the
// redeeming user's profile to the VIP tier. A code is redeemed at most
// once: IsRedeemed moves false->true and never back, and
// RedeemedByUserID is set at the same instant, exactly once.
type ActivationCode struct {
	ID               string
	Code             string
	IsRedeemed       bool
	RedeemedByUserID *string    // Pointer to allow for NULL
	RedeemedAt       *time.Time // Pointer to allow for NULL
	CreatedAt        time.Time
}
