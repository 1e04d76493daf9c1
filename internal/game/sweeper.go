package game

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultSweepInterval is the granularity of turn deadline enforcement.
const DefaultSweepInterval = time.Second

type timeoutChecker interface {
	RoomID() string
	CheckTimeout(now time.Time) bool
}

// Sweeper periodically forces an outcome in every room whose turn deadline elapsed.
type Sweeper struct {
	store    *RoomStore
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(store *RoomStore, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Infof("timeout sweeper running every %s", s.interval)
	for {
		select {
		case <-ctx.Done():
			log.Info("timeout sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(s.now())
		}
	}
}

// SweepOnce checks every live room once and returns how many were resolved.
func (s *Sweeper) SweepOnce(now time.Time) int {
	rooms := s.store.Rooms()
	checkers := make([]timeoutChecker, 0, len(rooms))
	for _, r := range rooms {
		checkers = append(checkers, r)
	}
	return s.sweep(checkers, now)
}

func (s *Sweeper) sweep(rooms []timeoutChecker, now time.Time) int {
	resolved := 0
	for _, room := range rooms {
		fired, err := s.sweepRoom(room, now)
		if err != nil {
			log.WithField("room", room.RoomID()).WithError(err).Error("timeout sweep failed")
			continue
		}
		if fired {
			resolved++
		}
	}
	return resolved
}

// sweepRoom isolates a failing room from the rest of the sweep.
func (s *Sweeper) sweepRoom(room timeoutChecker, now time.Time) (fired bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic sweeping room %s: %v", room.RoomID(), rec)
		}
	}()
	return room.CheckTimeout(now), nil
}
