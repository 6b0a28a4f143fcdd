// Package telemetry captures world state after a step and streams it to
// websocket clients as msgpack.
package telemetry

import (
	"fmt"

	"github.com/milk9111/physics2d/physics"
	"github.com/vmihailenco/msgpack/v5"
)

type BodyState struct {
	ID       int     `msgpack:"id"`
	Name     string  `msgpack:"name"`
	X        float64 `msgpack:"x"`
	Y        float64 `msgpack:"y"`
	VX       float64 `msgpack:"vx"`
	VY       float64 `msgpack:"vy"`
	Dynamic  bool    `msgpack:"dynamic"`
	Trigger  bool    `msgpack:"trigger"`
	Contacts int     `msgpack:"contacts"`
}

// Contact is one colliding pair, reported from the lower ID's side.
type Contact struct {
	First  int     `msgpack:"a"`
	Second int     `msgpack:"b"`
	NX     float64 `msgpack:"nx"`
	NY     float64 `msgpack:"ny"`
	Depth  float64 `msgpack:"depth"`
}

type Snapshot struct {
	Scenario string      `msgpack:"scenario"`
	Tick     uint64      `msgpack:"tick"`
	Bodies   []BodyState `msgpack:"bodies"`
	Contacts []Contact   `msgpack:"contacts"`
}

// Capture records every enabled body and the collisions of the last step.
func Capture(scenario string, w *physics.World) Snapshot {
	bodies := w.Bodies()
	s := Snapshot{
		Scenario: scenario,
		Tick:     w.Tick(),
		Bodies:   make([]BodyState, 0, len(bodies)),
	}
	for _, b := range bodies {
		p, v := b.Position(), b.Velocity()
		events := b.Collisions()
		s.Bodies = append(s.Bodies, BodyState{
			ID:       int(b.ID()),
			Name:     b.Name(),
			X:        p.X,
			Y:        p.Y,
			VX:       v.X,
			VY:       v.Y,
			Dynamic:  b.IsDynamic(),
			Trigger:  b.IsTrigger(),
			Contacts: len(events),
		})
		for _, ev := range events {
			other, ok := ev.Second.Body().(*physics.Body)
			if !ok || other.ID() < b.ID() {
				continue
			}
			s.Contacts = append(s.Contacts, Contact{
				First:  int(b.ID()),
				Second: int(other.ID()),
				NX:     ev.Normal.X,
				NY:     ev.Normal.Y,
				Depth:  ev.MinimumTranslationVector.Length(),
			})
		}
	}
	return s
}

func (s Snapshot) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("telemetry: encode tick %d: %w", s.Tick, err)
	}
	return data, nil
}

func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("telemetry: decode: %w", err)
	}
	return s, nil
}
