package collab

import "sync"

// Handler receives the full message payload for a subscribed type.
type Handler func(Message)

type handlerEntry struct {
	id int
	fn Handler
}

// dispatcher routes inbound messages to handlers registered per type.
// Handlers run in registration order; each registration is its own
// subscription and is removed through the closure Subscribe returns.
type dispatcher struct {
	mu       sync.Mutex
	nextID   int
	handlers map[MessageType][]handlerEntry
}

func (d *dispatcher) subscribe(typ MessageType, fn Handler) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handlers == nil {
		d.handlers = make(map[MessageType][]handlerEntry)
	}
	d.nextID++
	id := d.nextID
	d.handlers[typ] = append(d.handlers[typ], handlerEntry{id: id, fn: fn})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		entries := d.handlers[typ]
		for i, e := range entries {
			if e.id == id {
				d.handlers[typ] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

func (d *dispatcher) dispatch(msg Message) {
	d.mu.Lock()
	entries := d.handlers[msg.Type]
	snapshot := make([]handlerEntry, len(entries))
	copy(snapshot, entries)
	d.mu.Unlock()

	for _, e := range snapshot {
		e.fn(msg)
	}
}
