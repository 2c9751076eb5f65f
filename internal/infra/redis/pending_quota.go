package redis

import (
	"context"
	"fmt"
	"time"
)

// PendingQuota counts in-flight (reserved, not yet committed) sheet
// generations per user and calendar day. The counter closes the window
// between quota reservation and the post-provider commit, so a burst of
// concurrent free-tier requests cannot all be admitted against the same
// remaining allowance.
type PendingQuota struct {
	client RedisClient
	loc    *time.Location
}

// Keys outlive their day slightly so a crashed handler cannot pin a
// counter forever; a leaked unit self-heals at rollover.
const pendingTTL = 26 * time.Hour

func NewPendingQuota(client RedisClient, loc *time.Location) *PendingQuota {
	if loc == nil {
		loc = time.UTC
	}
	return &PendingQuota{client: client, loc: loc}
}

func (p *PendingQuota) key(userID string, day time.Time) string {
	return fmt.Sprintf("gen:pending:%s:%s", userID, day.In(p.loc).Format("2006-01-02"))
}

func (p *PendingQuota) Add(ctx context.Context, userID string, day time.Time) (int64, error) {
	k := p.key(userID, day)
	n, err := p.client.Incr(ctx, k)
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := p.client.Expire(ctx, k, pendingTTL); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (p *PendingQuota) Release(ctx context.Context, userID string, day time.Time) error {
	k := p.key(userID, day)
	n, err := p.client.Decr(ctx, k)
	if err != nil {
		return err
	}
	if n < 0 {
		// Counter expired mid-flight; drop the stale key.
		return p.client.Del(ctx, k)
	}
	return nil
}
