package relay

import "sync"

// Directory maps session keys to their current member connections. A
// connection belongs to at most one session at any instant; sessions exist
// only while they have members.
type Directory struct {
	mu     sync.RWMutex
	byKey  map[SessionKey]map[Conn]struct{}
	byConn map[Conn]SessionKey
}

func NewDirectory() *Directory {
	return &Directory{
		byKey:  make(map[SessionKey]map[Conn]struct{}),
		byConn: make(map[Conn]SessionKey),
	}
}

// Join adds the connection to the target session, creating the session on
// first join. If the connection was in a different session it is removed
// from that one first; the previous key is returned so the caller can emit
// the leave broadcast. Joining the session the connection is already in is
// a no-op with left=false.
func (d *Directory) Join(c Conn, key SessionKey) (prev SessionKey, left bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if cur, ok := d.byConn[c]; ok {
		if cur == key {
			return SessionKey{}, false
		}
		d.removeLocked(c, cur)
		prev, left = cur, true
	}

	members, ok := d.byKey[key]
	if !ok {
		members = make(map[Conn]struct{})
		d.byKey[key] = members
	}
	members[c] = struct{}{}
	d.byConn[c] = key
	return prev, left
}

// Leave removes the connection from its current session and returns the key
// it left. No-op when the connection is not in any session.
func (d *Directory) Leave(c Conn) (SessionKey, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key, ok := d.byConn[c]
	if !ok {
		return SessionKey{}, false
	}
	d.removeLocked(c, key)
	return key, true
}

func (d *Directory) removeLocked(c Conn, key SessionKey) {
	delete(d.byConn, c)
	if members, ok := d.byKey[key]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(d.byKey, key)
		}
	}
}

// Members returns a snapshot of the session's current member connections.
func (d *Directory) Members(key SessionKey) []Conn {
	d.mu.RLock()
	defer d.mu.RUnlock()

	members := d.byKey[key]
	out := make([]Conn, 0, len(members))
	for c := range members {
		out = append(out, c)
	}
	return out
}

// SessionOf returns the session the connection is currently joined to.
func (d *Directory) SessionOf(c Conn) (SessionKey, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	key, ok := d.byConn[c]
	return key, ok
}

// Sessions returns the number of live sessions.
func (d *Directory) Sessions() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byKey)
}
