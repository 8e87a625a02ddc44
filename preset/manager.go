package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// maxRecent caps the recently-used list.
const maxRecent = 10

// Preferences is the persisted per-installation palette state.
type Preferences struct {
	Default      int   `json:"default"`
	RecentlyUsed []int `json:"recentlyUsed"` // MRU order, max 10 indexes
}

// Manager handles loading, saving, and updating the preferences file.
type Manager struct {
	mu       sync.RWMutex
	filePath string
	prefs    Preferences
	logger   zerolog.Logger
}

// NewManager loads preferences from filePath, or starts from defaults if the
// file does not exist. Unreadable, corrupt, or out-of-range files are errors.
func NewManager(filePath string, logger zerolog.Logger) (*Manager, error) {
	m := &Manager{
		filePath: filePath,
		prefs:    Preferences{RecentlyUsed: []int{}},
		logger:   logger.With().Str("component", "preferences").Logger(),
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.logger.Debug().Str("path", filePath).Msg("no preferences file, using defaults")
			return m, nil
		}
		return nil, fmt.Errorf("read preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("decode preferences %s: %w", filePath, err)
	}
	if !InRange(prefs.Default) {
		return nil, fmt.Errorf("preferences %s: default: %w: %d", filePath, ErrOutOfRange, prefs.Default)
	}
	prefs.RecentlyUsed = normalizeRecent(prefs.RecentlyUsed)
	m.prefs = prefs
	return m, nil
}

// Get returns a snapshot of the current preferences.
func (m *Manager) Get() Preferences {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyPrefs(m.prefs)
}

// Save validates and atomically writes prefs, then updates in-memory state.
// The recently-used list is normalized rather than rejected.
func (m *Manager) Save(prefs Preferences) error {
	if !InRange(prefs.Default) {
		return fmt.Errorf("default: %w: %d", ErrOutOfRange, prefs.Default)
	}
	prefs.RecentlyUsed = normalizeRecent(prefs.RecentlyUsed)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writeAtomic(prefs); err != nil {
		return err
	}
	m.prefs = prefs
	return nil
}

// SetDefault changes only the default preset.
func (m *Manager) SetDefault(index int) error {
	if !InRange(index) {
		return fmt.Errorf("default: %w: %d", ErrOutOfRange, index)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	next := copyPrefs(m.prefs)
	next.Default = index
	if err := m.writeAtomic(next); err != nil {
		return err
	}
	m.prefs = next
	return nil
}

// MarkUsed moves index to the front of the recently-used list.
func (m *Manager) MarkUsed(index int) error {
	if !InRange(index) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	next := copyPrefs(m.prefs)
	next.RecentlyUsed = normalizeRecent(append([]int{index}, m.prefs.RecentlyUsed...))
	if err := m.writeAtomic(next); err != nil {
		return err
	}
	m.prefs = next
	m.logger.Debug().Int("preset", index).Ints("recent", next.RecentlyUsed).Msg("preset used")
	return nil
}

// writeAtomic writes to a temp file then renames it over filePath.
// Caller must hold m.mu.
func (m *Manager) writeAtomic(prefs Preferences) error {
	dir := filepath.Dir(m.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	tmp := m.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, m.filePath); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}

// normalizeRecent drops out-of-range and duplicate indexes, keeping first
// occurrences, and caps the result. It never returns nil.
func normalizeRecent(in []int) []int {
	out := make([]int, 0, min(len(in), maxRecent))
	var seen [Count]bool
	for _, idx := range in {
		if !InRange(idx) || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
		if len(out) == maxRecent {
			break
		}
	}
	return out
}

func copyPrefs(p Preferences) Preferences {
	ru := make([]int, len(p.RecentlyUsed))
	copy(ru, p.RecentlyUsed)
	return Preferences{Default: p.Default, RecentlyUsed: ru}
}
