package session

import (
	"errors"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tinted-terminal/metrics"
	"tinted-terminal/preset"
)

var ErrNameTaken = errors.New("session name already in use")
var ErrNotFound = errors.New("session not found")

// SpawnFunc starts the process behind s and arranges for onExit(s.ID) to be
// called once it ends.
type SpawnFunc func(m *Manager, s *Session, onExit func(string)) error

type Manager struct {
	mu            sync.RWMutex
	sessions      map[string]*Session
	spawn         SpawnFunc
	shell         string
	defaultPreset func() int
	logger        zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithSpawnFunc replaces the PTY spawner. Pass MockSpawnFunc for a
// pipe-based in-process mock.
func WithSpawnFunc(fn SpawnFunc) Option {
	return func(m *Manager) { m.spawn = fn }
}

// WithLogger sets the manager's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithShell sets the program started in each PTY.
func WithShell(shell string) Option {
	return func(m *Manager) { m.shell = shell }
}

// WithDefaultPreset sets the preset used when Create is not given one.
func WithDefaultPreset(index int) Option {
	return WithDefaultPresetFunc(func() int { return index })
}

// WithDefaultPresetFunc makes the default follow a live source, typically
// the stored preferences. It is consulted on every Create.
func WithDefaultPresetFunc(fn func() int) Option {
	return func(m *Manager) { m.defaultPreset = fn }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		spawn:    spawnPTY,
		shell:    "bash",
		logger:   zerolog.Nop(),

		defaultPreset: func() int { return 0 },
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With().Str("component", "sessions").Logger()
	return m
}

// MockSpawnFunc is an os.Pipe-based spawner for testing. Data written via
// WriteToPTY is echoed back as PTY output.
func MockSpawnFunc(m *Manager, s *Session, onExit func(string)) error {
	r, w, err := os.Pipe()
	if err != nil {
		return err
	}
	s.ptmx = w
	go func() {
		defer r.Close()
		readLoop(m.logger, s, r, onExit)
	}()
	return nil
}

// DefaultPreset is the preset new sessions get when none is requested.
// An out-of-range source value falls back to the first preset.
func (m *Manager) DefaultPreset() int {
	if index := m.defaultPreset(); preset.InRange(index) {
		return index
	}
	return 0
}

// Create starts a session named name themed with presetIndex. A negative
// index selects the manager default.
func (m *Manager) Create(name string, presetIndex int) (*Session, error) {
	if presetIndex < 0 {
		presetIndex = m.DefaultPreset()
	}
	if _, err := preset.At(presetIndex); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.Name == name {
			return nil, ErrNameTaken
		}
	}

	now := time.Now()
	s := &Session{
		ID:         uuid.New().String(),
		Name:       name,
		CreatedAt:  now,
		LastActive: now,
		Preset:     presetIndex,
		scrollback: newScrollbackBuf(),
		done:       make(chan struct{}),
	}

	if err := m.spawn(m, s, m.remove); err != nil {
		m.logger.Error().Err(err).Str("name", name).Msg("spawn failed")
		return nil, err
	}

	m.sessions[s.ID] = s
	metrics.SessionsActive.Inc()
	metrics.SessionsCreated.WithLabelValues(metrics.PresetLabel(presetIndex)).Inc()
	m.logger.Info().Str("session", s.ID).Str("name", name).Int("preset", presetIndex).Msg("session created")
	return s, nil
}

// List returns sessions oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Name < list[j].Name
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// SetPreset re-themes a live session.
func (m *Manager) SetPreset(id string, index int) (*Session, error) {
	if _, err := preset.At(index); err != nil {
		return nil, err
	}
	s, ok := m.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if !s.setPreset(index) {
		m.logger.Warn().Str("session", id).Int("preset", index).Msg("client buffer full, theme event dropped")
	}
	metrics.PresetSelections.WithLabelValues(metrics.PresetLabel(index)).Inc()
	m.logger.Debug().Str("session", id).Int("preset", index).Msg("preset changed")
	return s, nil
}

func (m *Manager) Kill(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}

	if s.cmd != nil && s.cmd.Process != nil {
		if err := s.cmd.Process.Kill(); err != nil {
			m.logger.Debug().Err(err).Str("session", id).Msg("kill shell")
		}
	}
	if s.ptmx != nil {
		s.ptmx.Close()
	}
	delete(m.sessions, id)
	metrics.SessionsActive.Dec()
	m.logger.Info().Str("session", id).Msg("session killed")
	return nil
}

// remove drops a session whose shell exited on its own. A session already
// removed by Kill is left alone so the gauge is only decremented once.
func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return
	}
	delete(m.sessions, id)
	metrics.SessionsActive.Dec()
	m.logger.Info().Str("session", id).Msg("session exited")
}

// readLoop pumps r into s until EOF or error, then closes s.done and calls
// onExit.
func readLoop(logger zerolog.Logger, s *Session, r io.Reader, onExit func(id string)) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			s.publish(data)
		}
		if err != nil {
			if err != io.EOF {
				logger.Debug().Err(err).Str("session", s.ID).Msg("PTY read ended")
			}
			close(s.done)
			onExit(s.ID)
			return
		}
	}
}
