package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/posguard/licadmin/pkg/token"
)

// MonitorState is the lifecycle position of the session monitor.
type MonitorState int

const (
	// StateIdle means no token is present.
	StateIdle MonitorState = iota
	// StateActive means a token is present and being watched.
	StateActive
	// StateWarned means the one-time expiry warning has fired.
	StateWarned
	// StateExpired means expiry was detected and the session ended.
	StateExpired
)

func (s MonitorState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateWarned:
		return "warned"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// MonitorConfig tunes the periodic expiry check.
type MonitorConfig struct {
	// Interval between checks. Defaults to 30s.
	Interval time.Duration
	// WarnBefore is how long before expiry the warning fires. Defaults to 5m.
	WarnBefore time.Duration
	// OnWarn is called at most once per token with the remaining lifetime.
	OnWarn func(remaining time.Duration)
	// OnExpire is called after the monitor has ended the session.
	OnExpire func()
}

// Monitor periodically compares the cached expiry against wall-clock time,
// warning ahead of expiry and ending the session once it is reached. Expiry
// detection is idempotent with the transport's: both funnel into
// Store.Logout.
type Monitor struct {
	store  *Store
	cfg    MonitorConfig
	logger *slog.Logger
	now    func() time.Time

	mu          sync.Mutex
	state       MonitorState
	warnedToken string // latch: token the warning already fired for

	nudge chan struct{}
	stop  chan struct{}
	done  chan struct{}
}

func NewMonitor(store *Store, cfg MonitorConfig, logger *slog.Logger) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.WarnBefore <= 0 {
		cfg.WarnBefore = 5 * time.Minute
	}
	return &Monitor{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		nudge:  make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start runs the periodic check until Stop is called or ctx is done. Any
// store change triggers an immediate re-check.
func (m *Monitor) Start(ctx context.Context) {
	m.store.OnChange(func(Snapshot) {
		select {
		case m.nudge <- struct{}{}:
		default:
		}
	})

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.cfg.Interval)
		defer ticker.Stop()

		m.check()
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stop:
				return
			case <-m.nudge:
				m.check()
			case <-ticker.C:
				m.check()
			}
		}
	}()
}

// Stop cancels the check loop. The ticker does not outlive the session.
func (m *Monitor) Stop() {
	select {
	case <-m.stop:
	default:
		close(m.stop)
	}
	<-m.done
}

// State returns the state observed by the most recent check.
func (m *Monitor) State() MonitorState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Monitor) check() {
	snap := m.store.Snapshot()
	now := m.now()

	m.mu.Lock()
	if !snap.Authenticated || snap.Token == "" {
		m.state = StateIdle
		m.mu.Unlock()
		return
	}

	expired := snap.ExpiresAt.IsZero() || !now.Before(snap.ExpiresAt.Add(-token.Skew()))
	if expired {
		m.state = StateExpired
		m.mu.Unlock()

		m.logger.Info("session expired, logging out")
		m.store.Logout()
		if m.cfg.OnExpire != nil {
			m.cfg.OnExpire()
		}
		return
	}

	remaining := snap.ExpiresAt.Sub(now)
	if remaining <= m.cfg.WarnBefore && m.warnedToken != snap.Token {
		m.warnedToken = snap.Token
		m.state = StateWarned
		m.mu.Unlock()

		m.logger.Info("session expiring soon", "remaining", remaining)
		if m.cfg.OnWarn != nil {
			m.cfg.OnWarn(remaining)
		}
		return
	}
	if m.warnedToken != snap.Token {
		m.state = StateActive
	}
	m.mu.Unlock()
}
