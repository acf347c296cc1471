package service

import (
	"context"
	"sync"
	"time"
)

type refreshJob struct {
	auth    AuthService
	account *AccountState

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefreshJob creates a refreshJob that re-fetches the profile on a
// ticker while a session is authenticated. Each refresh also rides the
// sliding-session protocol: any renewal header on the response is adopted
// by the transport. The job is idle until Start is called.
func NewRefreshJob(auth AuthService, account *AccountState) RefreshJob {
	return &refreshJob{auth: auth, account: account}
}

// Start implements [RefreshJob]. It stops any previously running job, then
// launches a background goroutine that calls RefreshProfile every interval.
// If interval is zero or negative it defaults to 5 minutes. Ticks outside an
// authenticated session are skipped. The goroutine exits when ctx is
// cancelled or Stop is called.
func (j *refreshJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if j.account.State() != StateAuthenticated {
					continue
				}
				_ = j.auth.RefreshProfile(jobCtx)
			}
		}
	}()
}

// Stop implements [RefreshJob]. It cancels the background goroutine's
// context and blocks until the goroutine has fully exited. Safe to call when
// the job is not running (no-op in that case).
func (j *refreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
