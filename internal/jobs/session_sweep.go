package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const sweepTimeout = 30 * time.Second

// ExpiryClearer removes stored session expiries that have passed.
type ExpiryClearer interface {
	ClearExpiredTokenExpiry(ctx context.Context, now time.Time) (int64, error)
}

// SessionSweepJob periodically clears users.current_token_expiry once the
// token it describes has expired, so the column only reflects live sessions.
type SessionSweepJob struct {
	users    ExpiryClearer
	interval time.Duration
	now      func() time.Time
	done     chan struct{}
}

func NewSessionSweepJob(users ExpiryClearer, interval time.Duration) *SessionSweepJob {
	return &SessionSweepJob{
		users:    users,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

func (j *SessionSweepJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("session sweep job started")
}

func (j *SessionSweepJob) Stop() {
	close(j.done)
	log.Info().Msg("session sweep job stopped")
}

func (j *SessionSweepJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *SessionSweepJob) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	count, err := j.users.ClearExpiredTokenExpiry(ctx, j.now())
	if err != nil {
		log.Error().Err(err).Msg("failed to clear expired session expiries")
	} else if count > 0 {
		log.Info().Int64("count", count).Msg("cleared expired session expiries")
	}
}
