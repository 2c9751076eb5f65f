package model

import (
	"time"

	"studysheet-ai-service/internal/domain"

	"github.com/google/uuid"
)

// Tier is the subscription level of a profile.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
	TierVIP     Tier = "vip"
)

// Unlimited reports whether the tier is exempt from the daily sheet quota.
func (t Tier) Unlimited() bool { return t == TierPremium || t == TierVIP }

func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierFree, TierPremium, TierVIP:
		return Tier(s), nil
	}
	return "", domain.ErrInvalidArgument
}

// Profile is the per-user entitlement record: tier plus the daily
// generation counter. SheetsGeneratedToday is only meaningful when
// LastGenerationDate falls on the current calendar day; otherwise the
// effective usage is zero (rollover).
type Profile struct {
	UserID               string
	Tier                 Tier
	SheetsGeneratedToday int
	LastGenerationDate   time.Time // date component only
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func NewProfile(userID string, tier Tier) (*Profile, error) {
	if userID == "" {
		userID = uuid.NewString()
	}
	if _, err := ParseTier(string(tier)); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Profile{
		UserID:    userID,
		Tier:      tier,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SameCalendarDay reports whether a and b fall on the same calendar day
// in loc. It is the rollover predicate, kept pure so it can be tested
// in isolation from the request path.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// EffectiveUsage returns the usage that counts against today's quota:
// the stored counter when it was stamped today, zero after rollover.
func (p *Profile) EffectiveUsage(now time.Time, loc *time.Location) int {
	if p.LastGenerationDate.IsZero() {
		return 0
	}
	if !SameCalendarDay(p.LastGenerationDate, now, loc) {
		return 0
	}
	return p.SheetsGeneratedToday
}

func (p *Profile) IsZero() bool { return p == nil || p.UserID == "" }
