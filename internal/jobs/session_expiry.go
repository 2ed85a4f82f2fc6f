package jobs

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type SessionEvictor interface {
	EvictIdle(idleFor time.Duration) int
}

// SessionExpiryJob drops conversation sessions nobody has touched for idleFor.
// An expired wizard simply starts over at the next message.
type SessionExpiryJob struct {
	evictor  SessionEvictor
	idleFor  time.Duration
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

func NewSessionExpiryJob(evictor SessionEvictor, idleFor, interval time.Duration) *SessionExpiryJob {
	return &SessionExpiryJob{
		evictor:  evictor,
		idleFor:  idleFor,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (j *SessionExpiryJob) Start() {
	go j.run()
	log.Info().
		Dur("idleFor", j.idleFor).
		Dur("interval", j.interval).
		Msg("session expiry job started")
}

func (j *SessionExpiryJob) Stop() {
	j.stopOnce.Do(func() {
		close(j.done)
		log.Info().Msg("session expiry job stopped")
	})
}

func (j *SessionExpiryJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *SessionExpiryJob) sweep() {
	if count := j.evictor.EvictIdle(j.idleFor); count > 0 {
		log.Info().Int("count", count).Msg("expired idle conversation sessions")
	}
}
