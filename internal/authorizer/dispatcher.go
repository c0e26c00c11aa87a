package authorizer

import "encoding/json"

// Constructor builds an operation from the fields nested under its key.
type Constructor func(fields json.RawMessage, s *State) (Operation, error)

type registration struct {
	key       string
	construct Constructor
}

// Dispatcher selects an operation by the top-level key of a decoded object.
type Dispatcher struct {
	registry []registration
}

// NewDispatcher returns a dispatcher with nothing registered.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register appends key to the registry. Earlier registrations win when an
// object carries several known keys.
func (d *Dispatcher) Register(key string, c Constructor) {
	d.registry = append(d.registry, registration{key: key, construct: c})
}

// Keys returns the registered keys in registration order.
func (d *Dispatcher) Keys() []string {
	keys := make([]string, 0, len(d.registry))
	for _, r := range d.registry {
		keys = append(keys, r.key)
	}

	return keys
}

// Dispatch constructs the operation for obj. It returns a nil operation and
// a nil error when obj matches no registered key.
func (d *Dispatcher) Dispatch(obj map[string]json.RawMessage, s *State) (Operation, error) {
	for _, r := range d.registry {
		fields, ok := obj[r.key]
		if !ok {
			continue
		}

		return r.construct(fields, s)
	}

	return nil, nil
}
