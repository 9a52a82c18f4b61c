package core

import "time"

// Event is a change notification fanned out to connected dashboards.
// OwnerID scopes delivery: admins see everything, residents only their own.
type Event struct {
	Kind    string    `json:"kind"`
	OwnerID string    `json:"ownerId,omitempty"`
	Data    any       `json:"data,omitempty"`
	At      time.Time `json:"at"`
}

type Publisher interface {
	Publish(evt Event)
}

// Publish is nil-safe so services can run without a realtime hub.
func Publish(p Publisher, kind, ownerID string, data any) {
	if p == nil {
		return
	}
	p.Publish(Event{Kind: kind, OwnerID: ownerID, Data: data, At: time.Now().UTC()})
}
