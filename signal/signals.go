// Package signal delivers provider events to whoever embeds walletd: the
// daemon forwards them to websocket subscribers, tests install their own
// handler.
package signal

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Envelope is a general signal sent to the handler. It contains a type and
// the JSON-encoded event payload.
type Envelope struct {
	Type  string      `json:"type"`
	Event interface{} `json:"event"`
}

// NewEnvelope creates a new envelope of given type and event payload.
func NewEnvelope(typ string, event interface{}) *Envelope {
	return &Envelope{
		Type:  typ,
		Event: event,
	}
}

// Handler processes incoming provider events, encoded as JSON.
type Handler func(jsonEvent []byte)

var (
	handlerMu sync.RWMutex
	handler   Handler

	logger = zap.NewNop()
)

// SetHandler installs the process-wide signal handler.
func SetHandler(h Handler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	handler = h
}

// ResetHandler removes the installed handler. Signals sent afterwards are
// dropped.
func ResetHandler() {
	SetHandler(nil)
}

// SetLogger replaces the package logger. Nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// send marshals the event into an envelope and hands it to the installed
// handler.
func send(typ string, event interface{}) {
	handlerMu.RLock()
	h := handler
	handlerMu.RUnlock()

	if h == nil {
		return
	}

	data, err := json.Marshal(NewEnvelope(typ, event))
	if err != nil {
		logger.Error("failed to marshal signal", zap.String("type", typ), zap.Error(err))
		return
	}
	h(data)
}
