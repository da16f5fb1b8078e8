// Package schedule запускает периодические обратные вызовы
package schedule

import (
	"sync"
	"time"
)

// Scheduler вызывает fn каждые interval до вызова stop
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// Ticker планировщик на основе time.Ticker. Каждый fn вызывается в своей горутине.
type Ticker struct{}

// NewTicker создает планировщик реального времени
func NewTicker() *Ticker {
	return &Ticker{}
}

// Every запускает fn с интервалом interval
func (Ticker) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// Manual планировщик для тестов: обратные вызовы срабатывают только по Fire
type Manual struct {
	mu     sync.Mutex
	nextID int
	jobs   map[int]func()
}

// NewManual создает ручной планировщик
func NewManual() *Manual {
	return &Manual{jobs: make(map[int]func())}
}

// Every регистрирует fn; интервал игнорируется
func (m *Manual) Every(_ time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.jobs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.jobs, id)
	}
}

// Fire синхронно вызывает все активные обратные вызовы
func (m *Manual) Fire() {
	m.mu.Lock()
	jobs := make([]func(), 0, len(m.jobs))
	for id := 0; id < m.nextID; id++ {
		if fn, ok := m.jobs[id]; ok {
			jobs = append(jobs, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range jobs {
		fn()
	}
}

// Active возвращает число зарегистрированных обратных вызовов
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}
