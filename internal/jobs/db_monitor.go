package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/forgo/moveyes/internal/database"
)

// Gateway is the part of the database the monitor drives.
type Gateway interface {
	Ping(ctx context.Context) error
	Reconnect(ctx context.Context) error
}

// DBMonitor pings the database on an interval and rebuilds the pool when
// the connection has dropped, so an outage is repaired before the next
// request has to pay for it.
type DBMonitor struct {
	db       Gateway
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewDBMonitor creates a new database monitor job
func NewDBMonitor(db Gateway, interval time.Duration) *DBMonitor {
	if interval == 0 {
		interval = 30 * time.Second
	}
	return &DBMonitor{
		db:       db,
		interval: interval,
		timeout:  5 * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the monitor job
func (m *DBMonitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run()
	slog.Info("database monitor started", slog.Duration("interval", m.interval))
}

// Stop gracefully stops the monitor job
func (m *DBMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	close(m.stopCh)
	m.wg.Wait()
	slog.Info("database monitor stopped")
}

func (m *DBMonitor) run() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check()
		case <-m.stopCh:
			return
		}
	}
}

// check pings once and reconnects on a connection-level failure. It
// reports whether the database is reachable afterwards.
func (m *DBMonitor) check() bool {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	err := m.db.Ping(ctx)
	if err == nil {
		return true
	}
	// A ping that outlives the monitor's own deadline means a hung link.
	hung := errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil
	if !hung && !database.IsTransient(err) {
		slog.Error("database ping failed", slog.String("error", err.Error()))
		return false
	}

	slog.Warn("database connection lost, reconnecting", slog.String("error", err.Error()))
	reconnectCtx, cancelReconnect := context.WithTimeout(context.Background(), m.timeout)
	defer cancelReconnect()
	if err := m.db.Reconnect(reconnectCtx); err != nil {
		slog.Error("database reconnect failed", slog.String("error", err.Error()))
		return false
	}
	slog.Info("database connection restored")
	return true
}
