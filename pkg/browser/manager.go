package browser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxSessions caps concurrent sessions in a Manager.
const DefaultMaxSessions = 5

// closeConcurrency bounds how many sessions are torn down at once.
const closeConcurrency = 4

// Manager indexes named sessions. Sessions share nothing; the manager only
// owns the name table and the idle bookkeeping.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*managedSession
	starting    map[string]struct{}
	maxSessions int
	opts        []Option
	now         func() time.Time
}

type managedSession struct {
	computer   *Computer
	createdAt  time.Time
	lastUsedAt time.Time
}

// SessionInfo describes a managed session.
type SessionInfo struct {
	Name       string
	ID         string
	Backend    string
	CurrentURL string
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// NewManager returns a manager whose sessions are opened with opts.
func NewManager(opts ...Option) *Manager {
	return &Manager{
		sessions:    make(map[string]*managedSession),
		starting:    make(map[string]struct{}),
		maxSessions: DefaultMaxSessions,
		opts:        opts,
		now:         time.Now,
	}
}

// SetMaxSessions sets the maximum number of concurrent sessions.
func (m *Manager) SetMaxSessions(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxSessions = max
}

// Open starts a session under name. Per-call opts are applied after the
// manager's own. The name is reserved while the session bootstraps, so other
// sessions stay usable during a slow connect.
func (m *Manager) Open(ctx context.Context, name string, backend Backend, opts ...Option) (*Computer, error) {
	m.mu.Lock()
	if err := m.reserve(name); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()

	all := append(append([]Option{}, m.opts...), opts...)
	c, err := Open(ctx, backend, all...)

	m.mu.Lock()
	_, reserved := m.starting[name]
	delete(m.starting, name)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if !reserved {
		m.mu.Unlock()
		if closeErr := c.Close(); closeErr != nil {
			debugLog.Warnf("failed to close session %q opened during shutdown: %v", name, closeErr)
		}
		return nil, fmt.Errorf("session %q was closed while starting", name)
	}
	now := m.now()
	m.sessions[name] = &managedSession{computer: c, createdAt: now, lastUsedAt: now}
	m.mu.Unlock()
	return c, nil
}

// reserve claims name for a starting session. Callers hold m.mu.
func (m *Manager) reserve(name string) error {
	if _, exists := m.sessions[name]; exists {
		return fmt.Errorf("session %q already exists", name)
	}
	if _, starting := m.starting[name]; starting {
		return fmt.Errorf("session %q is already starting", name)
	}
	if len(m.sessions)+len(m.starting) >= m.maxSessions {
		return fmt.Errorf("maximum number of sessions (%d) reached", m.maxSessions)
	}
	m.starting[name] = struct{}{}
	return nil
}

// Get returns the session named name and marks it used.
func (m *Manager) Get(name string) (*Computer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, exists := m.sessions[name]
	if !exists {
		return nil, fmt.Errorf("session %q not found", name)
	}
	s.lastUsedAt = m.now()
	return s.computer, nil
}

// List describes every session, sorted by name.
func (m *Manager) List() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(m.sessions))
	for name, s := range m.sessions {
		url, err := s.computer.CurrentURL()
		if err != nil {
			url = ""
		}
		infos = append(infos, SessionInfo{
			Name:       name,
			ID:         s.computer.ID(),
			Backend:    s.computer.Backend(),
			CurrentURL: url,
			CreatedAt:  s.createdAt,
			LastUsedAt: s.lastUsedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Close closes and forgets the session named name.
func (m *Manager) Close(name string) error {
	m.mu.Lock()
	s, exists := m.sessions[name]
	delete(m.sessions, name)
	m.mu.Unlock()

	if !exists {
		return fmt.Errorf("session %q not found", name)
	}
	return s.computer.Close()
}

// CloseAll closes every session concurrently and joins their errors.
// Sessions still starting are closed as soon as their bootstrap finishes.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*managedSession)
	m.starting = make(map[string]struct{})
	m.mu.Unlock()

	_, err := closeSessions(sessions)
	return err
}

// CloseIdle closes sessions unused for longer than timeout and returns the
// names it closed.
func (m *Manager) CloseIdle(timeout time.Duration) ([]string, error) {
	m.mu.Lock()
	now := m.now()
	idle := make(map[string]*managedSession)
	for name, s := range m.sessions {
		if now.Sub(s.lastUsedAt) > timeout {
			idle[name] = s
			delete(m.sessions, name)
		}
	}
	m.mu.Unlock()

	return closeSessions(idle)
}

// closeSessions closes sessions concurrently. It returns their names sorted
// and every close error joined.
func closeSessions(sessions map[string]*managedSession) ([]string, error) {
	names := make([]string, 0, len(sessions))
	for name := range sessions {
		names = append(names, name)
	}
	sort.Strings(names)

	errs := make([]error, len(names))
	var g errgroup.Group
	g.SetLimit(closeConcurrency)
	for i, name := range names {
		i, name := i, name
		s := sessions[name]
		g.Go(func() error {
			if err := s.computer.Close(); err != nil {
				errs[i] = fmt.Errorf("session %q: %w", name, err)
				return errs[i]
			}
			return nil
		})
	}
	if err := g.Wait(); err == nil {
		return names, nil
	}
	return names, errors.Join(errs...)
}
