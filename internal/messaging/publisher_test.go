package messaging

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-survival/internal/geometry"
	"github.com/pixil98/go-survival/internal/world"
	"github.com/pixil98/go-testutil"
)

// fakeBus captures publishes so tests can assert on subjects and payloads.
type fakeBus struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakeBus) Publish(subject string, data []byte) error {
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return f.err
}

func (f *fakeBus) last(t *testing.T, into any) string {
	t.Helper()
	if len(f.payloads) == 0 {
		t.Fatal("nothing published")
	}
	if err := json.Unmarshal(f.payloads[len(f.payloads)-1], into); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	return f.subjects[len(f.subjects)-1]
}

func TestSoundEventsCarryPositionAndTime(t *testing.T) {
	bus := &fakeBus{}
	p := NewSignalPublisher(bus)
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	p.SoundEvent(world.SoundEvent{
		ID:   7,
		Kind: world.SoundIgnite,
		Pos:  geometry.Vec{X: 100, Y: 200},
		At:   at,
	})

	var msg soundMsg
	subject := bus.last(t, &msg)
	testutil.AssertEqual(t, "subject", subject, SubjectSound)
	testutil.AssertEqual(t, "id", msg.ID, uint64(7))
	testutil.AssertEqual(t, "kind", msg.Kind, string(world.SoundIgnite))
	testutil.AssertEqual(t, "x", msg.X, 100.0)
	testutil.AssertEqual(t, "at", msg.At, at.UnixMilli())
}

func TestLoopStartAndStopShareASubject(t *testing.T) {
	bus := &fakeBus{}
	p := NewSignalPublisher(bus)

	p.ContinuousStart(world.ContinuousSound{
		ObjectID: 42,
		Kind:     world.SoundCampfireLoop,
		Pos:      geometry.Vec{X: 1, Y: 2},
	})
	var start loopMsg
	testutil.AssertEqual(t, "start subject", bus.last(t, &start), SubjectSoundLoop)
	testutil.AssertEqual(t, "playing", start.Playing, true)

	p.ContinuousStop(42)
	var stop loopMsg
	testutil.AssertEqual(t, "stop subject", bus.last(t, &stop), SubjectSoundLoop)
	testutil.AssertEqual(t, "object id", stop.ObjectID, uint64(42))
	testutil.AssertEqual(t, "stopped", stop.Playing, false)
}

func TestWeatherChangeIsPublished(t *testing.T) {
	bus := &fakeBus{}
	p := NewSignalPublisher(bus)

	p.WeatherChanged(world.WeatherState{
		Current:       world.HeavyStorm,
		RainIntensity: 0.9,
		Duration:      3 * time.Minute,
	})

	var msg weatherMsg
	testutil.AssertEqual(t, "subject", bus.last(t, &msg), SubjectWeather)
	testutil.AssertEqual(t, "weather", msg.Weather, "heavy_storm")
	testutil.AssertEqual(t, "intensity", msg.RainIntensity, 0.9)
	testutil.AssertEqual(t, "duration", msg.DurationSecs, 180.0)
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	bus := &fakeBus{err: errors.New("broker down")}
	p := NewSignalPublisher(bus)

	// Must not panic or surface the error; signals are best-effort.
	p.Thunder(time.Now())
	testutil.AssertEqual(t, "attempted", len(bus.subjects), 1)
	testutil.AssertEqual(t, "subject", bus.subjects[0], SubjectThunder)
}
