package collector

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// Runner is anything with the shape of Collector.Run: an error-returning
// call that otherwise runs forever. Separated out so the supervisor can
// be exercised with a fake in tests without standing up a real session.
type Runner interface {
	Run(ctx context.Context) error
}

// Supervise wraps runner in a restart loop: a randomized startup
// jitter, then an infinite retry-with-backoff loop that never exits.
// It returns only when ctx is cancelled.
func Supervise(ctx context.Context, device string, interval time.Duration, runner Runner, log *logrus.Entry) {
	log = log.WithField("device", device)

	var jitter time.Duration
	if interval > 0 {
		jitter = time.Duration(rand.Int63n(int64(interval)))
	}
	select {
	case <-time.After(jitter):
	case <-ctx.Done():
		return
	}

	backoff := interval / 3

	for {
		if ctx.Err() != nil {
			return
		}

		err := runner.Run(ctx)
		if ctx.Err() != nil {
			return
		}

		log.WithError(err).Error("collector: cycle failed, restarting after backoff")

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return
		}

		log.Info("collector: resuming")
	}
}
