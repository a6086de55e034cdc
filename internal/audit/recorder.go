// Package audit appends login attempts to the authentication audit trail
// without ever involving the caller in the outcome.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"sales-tracker/internal/domain"
	"sales-tracker/internal/repository"
)

const writeTimeout = 5 * time.Second

// Recorder writes one LoginAttempt row per Record call. Writes are dispatched
// in the background and attempted at most once; a failed write is reported to
// the operator log and dropped. Audit failures must never fail or delay the
// login they describe.
type Recorder struct {
	attempts repository.LoginAttemptRepository
	logger   *logrus.Logger
	wg       sync.WaitGroup
}

func NewRecorder(attempts repository.LoginAttemptRepository, logger *logrus.Logger) *Recorder {
	return &Recorder{attempts: attempts, logger: logger}
}

// Record logs one login attempt. It returns immediately; the insert may
// complete after the caller's response has been sent.
func (r *Recorder) Record(username string, success bool, ipAddress string) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		attempt := &domain.LoginAttempt{
			Username:  username,
			Success:   success,
			IPAddress: ipAddress,
		}
		if _, err := r.attempts.Create(ctx, attempt); err != nil {
			r.logger.Errorf("record login attempt for %q: %v", username, err)
		}
	}()
}

// Flush blocks until all dispatched writes have finished. Used on shutdown so
// in-flight attempts are not lost with the process.
func (r *Recorder) Flush() {
	r.wg.Wait()
}
