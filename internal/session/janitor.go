package session

import (
	"log"
	"sync"
	"time"
)

// Sweep drops games that have not been touched for longer than the idle TTL.
// A zero TTL keeps every game.
func (m *Manager) Sweep() int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, g := range m.games {
		g.mu.Lock()
		idle := g.lastUsed.Before(cutoff)
		g.mu.Unlock()
		if idle {
			delete(m.games, id)
			evicted++
		}
	}
	if m.metrics != nil {
		m.metrics.ActiveGames.Set(float64(len(m.games)))
		m.metrics.GamesEvicted.Add(float64(evicted))
	}
	return evicted
}

// Janitor periodically sweeps idle games.
type Janitor struct {
	manager  *Manager
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	ticker   *time.Ticker
}

func NewJanitor(m *Manager, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{
		manager:  m,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (j *Janitor) Start() {
	if j == nil {
		return
	}
	j.ticker = time.NewTicker(j.interval)
	go j.loop()
}

func (j *Janitor) Stop() {
	if j == nil {
		return
	}
	j.stopOnce.Do(func() {
		close(j.stopChan)
		if j.ticker != nil {
			j.ticker.Stop()
		}
	})
}

func (j *Janitor) loop() {
	for {
		select {
		case <-j.stopChan:
			return
		case <-j.ticker.C:
			if n := j.manager.Sweep(); n > 0 {
				log.Printf("Evicted %d idle games", n)
			}
		}
	}
}
