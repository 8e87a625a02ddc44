package api

import (
	"encoding/base64"
	"net/http"
	"sync"

	"github.com/creack/pty"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"tinted-terminal/metrics"
	"tinted-terminal/preset"
	"tinted-terminal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	msgOutput = "output"
	msgClosed = "closed"
	msgTheme  = "theme"
	msgInput  = "input"
	msgResize = "resize"
)

type wsMessage struct {
	Type   string             `json:"type"`
	Data   string             `json:"data,omitempty"`
	Cols   uint16             `json:"cols,omitempty"`
	Rows   uint16             `json:"rows,omitempty"`
	Preset *int               `json:"preset,omitempty"`
	Theme  *preset.XtermTheme `json:"theme,omitempty"`
}

func themeMessage(index int) wsMessage {
	p, _ := preset.At(index)
	theme := p.Xterm()
	return wsMessage{Type: msgTheme, Preset: &index, Theme: &theme}
}

func outputMessage(data []byte) wsMessage {
	return wsMessage{Type: msgOutput, Data: base64.StdEncoding.EncodeToString(data)}
}

func (h *handler) handleWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := h.manager.Get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("session", id).Msg("WS upgrade")
		return
	}
	defer conn.Close()

	metrics.ClientsConnected.Inc()
	defer metrics.ClientsConnected.Dec()
	log := h.logger.With().Str("session", id).Logger()

	// gorilla/websocket forbids concurrent writes.
	var writeMu sync.Mutex
	writeMsg := func(msg wsMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	outChan := make(chan session.Event, 256)
	kick, current := s.SetClient(outChan) // kicks any prior client
	defer s.ClearClient(outChan)          // closes outChan

	// The client paints with the theme before any output arrives.
	if err := writeMsg(themeMessage(current)); err != nil {
		log.Debug().Err(err).Msg("WS theme write")
		return
	}
	if snap := s.ScrollbackSnapshot(); len(snap) > 0 {
		if err := writeMsg(outputMessage(snap)); err != nil {
			log.Debug().Err(err).Msg("WS scrollback replay")
			return
		}
	}

	// Pump events until ClearClient closes outChan.
	go func() {
		for ev := range outChan {
			var msg wsMessage
			switch ev.Kind {
			case session.EventTheme:
				msg = themeMessage(ev.Preset)
			default:
				msg = outputMessage(ev.Data)
			}
			if err := writeMsg(msg); err != nil {
				return
			}
		}
	}()

	// Close the connection on session end or displacement so ReadJSON
	// below unblocks.
	connDone := make(chan struct{})
	go func() {
		select {
		case <-s.Done():
			_ = writeMsg(wsMessage{Type: msgClosed})
			conn.Close()
		case <-kick:
			// No "closed" message: the displaced client shows its
			// disconnected state, not session-ended.
			conn.Close()
		case <-connDone:
		}
	}()
	defer close(connDone)

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			// Client gone or conn closed above; the session keeps running.
			return
		}

		switch msg.Type {
		case msgInput:
			data, err := base64.StdEncoding.DecodeString(msg.Data)
			if err != nil {
				continue
			}
			if _, err := s.WriteToPTY(data); err != nil {
				log.Warn().Err(err).Msg("PTY write")
				return
			}
		case msgResize:
			if msg.Cols > 0 && msg.Rows > 0 {
				if err := pty.Setsize(s.PTY(), &pty.Winsize{
					Rows: msg.Rows,
					Cols: msg.Cols,
				}); err != nil {
					log.Debug().Err(err).Msg("PTY resize")
				}
			}
		case msgTheme:
			if msg.Preset == nil {
				continue
			}
			// The confirming theme event arrives through outChan.
			if _, err := h.applyPreset(id, *msg.Preset); err != nil {
				log.Debug().Err(err).Int("preset", *msg.Preset).Msg("WS theme change rejected")
				// Resync the client to the theme actually in effect.
				_ = writeMsg(themeMessage(s.CurrentPreset()))
			}
		}
	}
}
