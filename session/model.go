package session

import (
	"os"
	"os/exec"
	"sync"
	"time"

	"tinted-terminal/preset"
)

const maxScrollback = 1 << 20 // 1MB

// EventKind distinguishes what a client-bound Event carries.
type EventKind int

const (
	// EventOutput carries PTY bytes in Data.
	EventOutput EventKind = iota
	// EventTheme announces the session's new preset in Preset.
	EventTheme
)

// Event is a single item delivered to the attached client.
type Event struct {
	Kind   EventKind
	Data   []byte
	Preset int
}

type Session struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
	Connected  bool      `json:"connected"`
	Preset     int       `json:"preset"`

	cmd        *exec.Cmd
	ptmx       *os.File
	scrollback *scrollbackBuf
	outChan    chan Event
	kickChan   chan struct{}
	outMu      sync.Mutex // guards outChan, kickChan, Connected, Preset
	done       chan struct{}
}

// View is a point-in-time copy of the exported session fields.
type View struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	CreatedAt  time.Time          `json:"created_at"`
	LastActive time.Time          `json:"last_active"`
	Connected  bool               `json:"connected"`
	Preset     int                `json:"preset"`
	Colors     preset.ColorPreset `json:"colors"`
}

// View snapshots the session under its lock.
func (s *Session) View() View {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	colors, _ := preset.At(s.Preset)
	return View{
		ID:         s.ID,
		Name:       s.Name,
		CreatedAt:  s.CreatedAt,
		LastActive: s.LastActive,
		Connected:  s.Connected,
		Preset:     s.Preset,
		Colors:     colors,
	}
}

type scrollbackBuf struct {
	mu   sync.Mutex
	data []byte
	max  int
}

func newScrollbackBuf() *scrollbackBuf {
	return &scrollbackBuf{max: maxScrollback}
}

func (s *scrollbackBuf) Write(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, p...)
	if len(s.data) > s.max {
		excess := len(s.data) - s.max
		s.data = s.data[excess:]
	}
}

func (s *scrollbackBuf) Snapshot() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.data) == 0 {
		return nil
	}
	cp := make([]byte, len(s.data))
	copy(cp, s.data)
	return cp
}

// SetClient registers a channel to receive live events. If a previous client
// is connected it is kicked: its kick channel is closed so the WebSocket
// handler can detect the displacement and close that connection. Returns a
// kick channel that will be closed if this client is itself later displaced,
// and the preset in effect at attach time.
func (s *Session) SetClient(ch chan Event) (kick <-chan struct{}, presetIndex int) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if s.kickChan != nil {
		close(s.kickChan)
	}
	k := make(chan struct{})
	s.kickChan = k
	s.outChan = ch
	s.Connected = true
	return k, s.Preset
}

// ClearClient is called when a connection ends. It only updates session state
// if ch is still the current owner, so a displaced connection cannot clear a
// newer one. It always closes ch so the pump goroutine exits.
func (s *Session) ClearClient(ch chan Event) {
	s.outMu.Lock()
	owned := s.outChan == ch
	if owned {
		s.outChan = nil
		s.Connected = false
		s.kickChan = nil
	}
	s.outMu.Unlock()
	close(ch)
}

// IsConnected reports whether a client is attached.
func (s *Session) IsConnected() bool {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return s.Connected
}

// CurrentPreset returns the palette index the session is themed with.
func (s *Session) CurrentPreset() int {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return s.Preset
}

// setPreset re-themes the session and tells the attached client, if any.
// Returns false when the client's buffer was full and the event was dropped;
// the client still picks up the preset on its next attach.
func (s *Session) setPreset(index int) bool {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	s.Preset = index
	return s.emit(Event{Kind: EventTheme, Preset: index})
}

// publish records PTY output and forwards it to the attached client.
func (s *Session) publish(data []byte) {
	s.scrollback.Write(data)
	s.outMu.Lock()
	s.LastActive = time.Now()
	s.emit(Event{Kind: EventOutput, Data: data})
	s.outMu.Unlock()
}

// emit never blocks the PTY reader. Caller must hold outMu.
func (s *Session) emit(ev Event) bool {
	if s.outChan == nil {
		return true
	}
	select {
	case s.outChan <- ev:
		return true
	default:
		return false
	}
}

// ScrollbackSnapshot returns a copy of the scrollback buffer.
func (s *Session) ScrollbackSnapshot() []byte {
	return s.scrollback.Snapshot()
}

// Done returns a channel that is closed when the shell exits.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// WriteToPTY writes input bytes to the PTY master.
func (s *Session) WriteToPTY(p []byte) (int, error) {
	return s.ptmx.Write(p)
}

// PTY returns the PTY master file for pty.Setsize calls.
func (s *Session) PTY() *os.File {
	return s.ptmx
}
