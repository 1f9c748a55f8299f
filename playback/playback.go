// Package playback replays the tick sequence of a finished simulation
// against wall-clock time, driving listeners such as the websocket feed.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/emberworks/firefighter-simulator/model"
)

// Mode describes how the Player advances replayed simulation time.
type Mode int

const (
	// RealTime advances one simulation tick per wall-clock interval.
	RealTime Mode = iota
	// Accelerated advances as quickly as the listeners can consume ticks.
	Accelerated
)

// Player steps replayed simulation time from 0 to an end tick and notifies
// registered listeners on every step. Listeners run on the player goroutine;
// a slow listener delays subsequent ticks.
type Player struct {
	mu       sync.RWMutex
	end      model.TimeUnit
	interval time.Duration
	mode     Mode

	current   model.TimeUnit
	listeners []func(model.TimeUnit)
}

// NewPlayer constructs a player replaying ticks 1..end.
func NewPlayer(end model.TimeUnit, interval time.Duration, mode Mode) *Player {
	return &Player{
		end:      end,
		interval: interval,
		mode:     mode,
	}
}

// Now returns the current replayed tick.
func (p *Player) Now() model.TimeUnit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// AddListener registers a callback invoked on every replayed tick. Must be
// called before Start.
func (p *Player) AddListener(fn func(model.TimeUnit)) {
	p.listeners = append(p.listeners, fn)
}

// Start replays the tick sequence in a separate goroutine. The returned
// channel is closed when the replay finishes or the context is cancelled.
func (p *Player) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		var ticker *time.Ticker
		if p.mode == RealTime {
			ticker = time.NewTicker(p.interval)
			defer ticker.Stop()
		}

		for p.Now() < p.end {
			if ticker != nil {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			} else if ctx.Err() != nil {
				return
			}

			p.mu.Lock()
			p.current++
			t := p.current
			p.mu.Unlock()

			for _, fn := range p.listeners {
				fn(t)
			}
		}
	}()
	return done
}
