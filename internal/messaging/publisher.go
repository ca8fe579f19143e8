package messaging

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pixil98/go-survival/internal/world"
)

// Subjects carrying world side effects out to renderers. Clients subscribe
// to whichever slices they care about.
const (
	SubjectSound     = "world.sound"
	SubjectSoundLoop = "world.sound.loop"
	SubjectWeather   = "world.weather"
	SubjectThunder   = "world.thunder"
)

// Bus is the publishing half of the broker. *NatsServer satisfies it.
type Bus interface {
	Publish(subject string, data []byte) error
}

// SignalPublisher fans world side effects out over NATS. Publishing is
// best-effort: a dropped message never fails the mutation behind it, so
// errors are logged and swallowed.
type SignalPublisher struct {
	bus Bus
}

func NewSignalPublisher(bus Bus) *SignalPublisher {
	return &SignalPublisher{bus: bus}
}

type soundMsg struct {
	ID   uint64  `json:"id"`
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	At   int64   `json:"at"`
}

type loopMsg struct {
	ObjectID uint64  `json:"object_id"`
	Kind     string  `json:"kind,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Playing  bool    `json:"playing"`
}

type weatherMsg struct {
	Weather       string  `json:"weather"`
	RainIntensity float64 `json:"rain_intensity"`
	DurationSecs  float64 `json:"duration_secs"`
}

type thunderMsg struct {
	At int64 `json:"at"`
}

func (p *SignalPublisher) SoundEvent(ev world.SoundEvent) {
	p.publish(SubjectSound, soundMsg{
		ID:   ev.ID,
		Kind: string(ev.Kind),
		X:    ev.Pos.X,
		Y:    ev.Pos.Y,
		At:   ev.At.UnixMilli(),
	})
}

func (p *SignalPublisher) ContinuousStart(cs world.ContinuousSound) {
	p.publish(SubjectSoundLoop, loopMsg{
		ObjectID: cs.ObjectID,
		Kind:     string(cs.Kind),
		X:        cs.Pos.X,
		Y:        cs.Pos.Y,
		Playing:  true,
	})
}

func (p *SignalPublisher) ContinuousStop(objectID uint64) {
	p.publish(SubjectSoundLoop, loopMsg{ObjectID: objectID, Playing: false})
}

func (p *SignalPublisher) WeatherChanged(w world.WeatherState) {
	p.publish(SubjectWeather, weatherMsg{
		Weather:       w.Current.String(),
		RainIntensity: w.RainIntensity,
		DurationSecs:  w.Duration.Seconds(),
	})
}

func (p *SignalPublisher) Thunder(at time.Time) {
	p.publish(SubjectThunder, thunderMsg{At: at.UnixMilli()})
}

func (p *SignalPublisher) publish(subject string, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Warn("encoding signal", "subject", subject, "error", err)
		return
	}
	if err := p.bus.Publish(subject, data); err != nil {
		slog.Warn("publishing signal", "subject", subject, "error", err)
	}
}
