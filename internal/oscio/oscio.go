// Package oscio is the OSC control-surface adapter: incoming pad triggers
// from a touch/pad front end, and outgoing per-bank level meters, mirroring
// the teacher's osc.NewStandardDispatcher/osc.Server setup and its
// SendOSC*Message client pattern in main.go/internal/model.
package oscio

import (
	"fmt"
	"strconv"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/hypebeast/go-osc/osc"

	"github.com/schollz/collidertracker/engine"
)

// PadHandler receives a resolved logical step for a bank/pad pair, decoded
// from an incoming OSC pad-trigger message.
type PadHandler func(bank int, pad uint8, step engine.Step)

// Server listens for incoming "/pad/<bank>/<pad>/{hold,loop,sync}" messages
// and dispatches each to a PadHandler.
type Server struct {
	dispatcher *osc.StandardDispatcher
	server     *osc.Server
}

// NewServer wires up the dispatcher; call ListenAndServe to start
// accepting connections on port.
func NewServer(port int, onPad PadHandler) *Server {
	d := osc.NewStandardDispatcher()
	s := &Server{dispatcher: d}

	registerKind(d, "hold", func(pad uint8, _ *osc.Message) engine.Event {
		return engine.HoldEvent(pad)
	}, onPad)
	registerKind(d, "sync", func(pad uint8, _ *osc.Message) engine.Event {
		return engine.SyncEvent()
	}, onPad)
	registerKind(d, "loop", func(pad uint8, msg *osc.Message) engine.Event {
		n := uint16(4)
		if len(msg.Arguments) > 0 {
			if v, ok := msg.Arguments[0].(int32); ok && v > 0 {
				n = uint16(v)
			}
		}
		return engine.LoopEvent(pad, n)
	}, onPad)

	s.server = &osc.Server{Addr: fmt.Sprintf(":%d", port), Dispatcher: d}
	return s
}

func registerKind(d *osc.StandardDispatcher, kind string, mk func(pad uint8, msg *osc.Message) engine.Event, onPad PadHandler) {
	pattern := fmt.Sprintf("/pad/*/*/%s", kind)
	d.AddMsgHandler(pattern, func(msg *osc.Message) {
		bank, pad, err := parsePadAddress(msg.Address)
		if err != nil {
			clog.Warn("oscio: malformed pad address", "address", msg.Address, "err", err)
			return
		}
		onPad(bank, pad, engine.Step{HasEvent: true, Event: mk(pad, msg)})
	})
}

// parsePadAddress extracts the bank/pad indices out of
// "/pad/<bank>/<pad>/<kind>".
func parsePadAddress(address string) (bank int, pad uint8, err error) {
	parts := strings.Split(strings.TrimPrefix(address, "/"), "/")
	if len(parts) != 4 || parts[0] != "pad" {
		err = fmt.Errorf("oscio: expected /pad/<bank>/<pad>/<kind>, got %q", address)
		return
	}
	bank, err = strconv.Atoi(parts[1])
	if err != nil {
		err = fmt.Errorf("oscio: bad bank index %q: %w", parts[1], err)
		return
	}
	padN, err := strconv.Atoi(parts[2])
	if err != nil {
		err = fmt.Errorf("oscio: bad pad index %q: %w", parts[2], err)
		return
	}
	pad = uint8(padN)
	return
}

// ListenAndServe blocks serving incoming pad-trigger messages.
func (s *Server) ListenAndServe() error {
	clog.Info("oscio: listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Meter sends outgoing per-bank stereo level meter messages, mirroring the
// teacher's osc.NewClient/osc.NewMessage send pattern.
type Meter struct {
	client *osc.Client
}

// NewMeter opens an OSC client pointed at host:port.
func NewMeter(host string, port int) *Meter {
	return &Meter{client: osc.NewClient(host, port)}
}

// SendLevel reports bank's current stereo peak level as
// "/bank/<bank>/level" [left, right].
func (m *Meter) SendLevel(bank int, left, right float32) error {
	msg := osc.NewMessage(fmt.Sprintf("/bank/%d/level", bank))
	msg.Append(left)
	msg.Append(right)
	if err := m.client.Send(msg); err != nil {
		return fmt.Errorf("oscio: send level for bank %d: %w", bank, err)
	}
	return nil
}
