package reducers

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/pixil98/go-survival/internal/world"
)

// Reducer is one named mutation. Args arrive as the raw JSON object from
// the wire; the handler decodes its own argument shape.
type Reducer func(identity string, args json.RawMessage, now time.Time) (any, error)

// Error is the wire form of a rejected reducer: a stable kind string for
// programmatic handling plus the human-readable message.
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// wrap converts a world mutation failure into the wire error.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if we, ok := err.(*world.Error); ok {
		return &Error{Kind: we.Kind.String(), Message: we.Message()}
	}
	return &Error{Kind: world.KindOf(err).String(), Message: err.Error()}
}

func badArgs(err error) error {
	return &Error{Kind: "invariant", Message: fmt.Sprintf("malformed arguments: %v", err)}
}

// Registry maps wire reducer names onto world mutations. Registration
// happens once at construction; Invoke is safe for concurrent use because
// the map is never written afterwards.
type Registry struct {
	state    *world.State
	reducers map[string]Reducer
}

func NewRegistry(state *world.State) *Registry {
	r := &Registry{
		state:    state,
		reducers: map[string]Reducer{},
	}
	r.registerItems()
	r.registerContainers()
	r.registerPlacement()
	r.registerPlayer()
	r.registerMaintenance()
	return r
}

func (r *Registry) register(name string, fn Reducer) {
	if _, ok := r.reducers[name]; ok {
		panic(fmt.Sprintf("reducer %q registered twice", name))
	}
	r.reducers[name] = fn
}

// Invoke runs the named reducer for the given identity. Every failure is
// an *Error; success returns the handler's result, which may be nil.
func (r *Registry) Invoke(identity, name string, args json.RawMessage, now time.Time) (any, error) {
	fn, ok := r.reducers[name]
	if !ok {
		return nil, &Error{Kind: "not_found", Message: fmt.Sprintf("unknown reducer %q", name)}
	}
	return fn(identity, args, now)
}

// Names lists the registered reducers in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.reducers))
	for name := range r.reducers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func decode[T any](raw json.RawMessage) (T, error) {
	var args T
	if len(raw) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		var zero T
		return zero, err
	}
	return args, nil
}
