package usecase

import (
	"context"
	"errors"
	"time"

	"studysheet-ai-service/internal/domain"
	"studysheet-ai-service/internal/domain/model"
	"studysheet-ai-service/internal/domain/ports/repository"
	"studysheet-ai-service/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ QuotaUseCase = (*quotaUC)(nil)

// PendingReservations tracks provisional, not-yet-committed quota units
// per user and calendar day. It bridges the gap between reserving quota
// and knowing the real unit count after the provider responds.
type PendingReservations interface {
	// Add increments the pending counter and returns its new value,
	// including the unit just added.
	Add(ctx context.Context, userID string, day time.Time) (int64, error)
	// Release decrements the pending counter.
	Release(ctx context.Context, userID string, day time.Time) error
}

// Reservation is an advisory quota ticket. The durable charge happens
// in Commit once the number of persisted sheets is known.
type Reservation struct {
	UserID   string
	Day      time.Time
	Tier     model.Tier
	Baseline int // committed usage at reservation time

	pending bool // a pending unit was taken and must be settled
}

type QuotaUseCase interface {
	// Reserve admits or denies a generation request. Free-tier users
	// are bounded by baseline + in-flight reservations; other tiers
	// are unlimited. Missing profile -> domain.ErrProfileNotFound,
	// limit reached -> domain.ErrQuotaExceeded.
	Reserve(ctx context.Context, userID string) (*Reservation, error)
	// Commit charges units against the profile counter atomically and
	// settles the pending unit. units reflects persisted sheets, not
	// the requested count.
	Commit(ctx context.Context, res *Reservation, units int) error
	// Release settles the pending unit without charging anything.
	Release(ctx context.Context, res *Reservation) error
}

type quotaUC struct {
	profiles repository.ProfileRepository
	pending  PendingReservations
	limit    int
	loc      *time.Location
	now      func() time.Time
	log      *zerolog.Logger
}

func NewQuotaUseCase(profiles repository.ProfileRepository, pending PendingReservations, freeDailyLimit int, loc *time.Location, logger *zerolog.Logger) *quotaUC {
	if freeDailyLimit <= 0 {
		freeDailyLimit = 3
	}
	if loc == nil {
		loc = time.UTC
	}
	return &quotaUC{
		profiles: profiles,
		pending:  pending,
		limit:    freeDailyLimit,
		loc:      loc,
		now:      time.Now,
		log:      logger,
	}
}

func (uc *quotaUC) Reserve(ctx context.Context, userID string) (*Reservation, error) {
	now := uc.now()
	p, err := uc.profiles.FindByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	res := &Reservation{
		UserID:   userID,
		Day:      now,
		Tier:     p.Tier,
		Baseline: p.EffectiveUsage(now, uc.loc),
	}
	if p.Tier.Unlimited() {
		return res, nil
	}

	inFlight, err := uc.pending.Add(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	res.pending = true

	// inFlight includes the unit just taken for this request.
	if res.Baseline+int(inFlight)-1 >= uc.limit {
		if rerr := uc.pending.Release(ctx, userID, now); rerr != nil {
			uc.log.Warn().Err(rerr).Str("user_id", userID).Msg("pending release after denial failed")
		}
		metrics.IncQuotaDenied()
		return nil, domain.ErrQuotaExceeded
	}
	return res, nil
}

func (uc *quotaUC) Commit(ctx context.Context, res *Reservation, units int) error {
	uc.settle(ctx, res)
	if units <= 0 {
		return nil
	}
	return uc.profiles.CommitUsage(ctx, nil, res.UserID, res.Day, units)
}

func (uc *quotaUC) Release(ctx context.Context, res *Reservation) error {
	uc.settle(ctx, res)
	return nil
}

func (uc *quotaUC) settle(ctx context.Context, res *Reservation) {
	if res == nil || !res.pending {
		return
	}
	res.pending = false
	if err := uc.pending.Release(ctx, res.UserID, res.Day); err != nil {
		uc.log.Warn().Err(err).Str("user_id", res.UserID).Msg("pending release failed")
	}
}
