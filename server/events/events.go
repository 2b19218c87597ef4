package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/lazharichir/holdem/domain/events"
	"github.com/lazharichir/holdem/server/connection"
)

// WireEnvelope is the JSON shape clients receive for every event.
type WireEnvelope struct {
	Name       string          `json:"name"`
	Seq        uint64          `json:"seq"`
	TableID    string          `json:"tableId"`
	HandNumber int             `json:"handNumber"`
	At         time.Time       `json:"at"`
	Payload    json.RawMessage `json:"payload"`
}

// Dispatcher handles routing engine envelopes to clients
type Dispatcher struct {
	connMgr *connection.Manager
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(connMgr *connection.Manager) *Dispatcher {
	return &Dispatcher{
		connMgr: connMgr,
	}
}

// Run drains the engine's envelope stream until the channel closes.
func (d *Dispatcher) Run(envelopes <-chan events.Envelope) {
	for envelope := range envelopes {
		d.HandleEnvelope(envelope)
	}
}

// HandleEnvelope serializes one envelope and sends it to the clients
// allowed to see it. Hole cards go to their owner only; everything
// else is table-wide.
func (d *Dispatcher) HandleEnvelope(envelope events.Envelope) {
	payload, err := json.Marshal(envelope.Event)
	if err != nil {
		log.Println("Failed to marshal event payload:", err)
		return
	}

	wire := WireEnvelope{
		Name:       envelope.Event.Name(),
		Seq:        envelope.Seq,
		TableID:    envelope.TableID,
		HandNumber: envelope.HandNumber,
		At:         envelope.At,
		Payload:    payload,
	}

	data, err := json.Marshal(wire)
	if err != nil {
		log.Println("Failed to marshal event envelope:", err)
		return
	}

	switch e := envelope.Event.(type) {
	case events.HoleCardDealt:
		// Only send to the player holding the card
		d.connMgr.SendToPlayer(e.PlayerID, data)

	default:
		d.connMgr.SendToTable(envelope.TableID, data)
	}
}
