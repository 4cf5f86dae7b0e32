package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_SingleSessionMembership(t *testing.T) {
	d := NewDirectory()
	c := newMockConn(1, "Aarav")
	keyA := SessionKey{ResourceType: "book", ResourceID: 42}
	keyB := SessionKey{ResourceType: "task", ResourceID: 7}

	_, left := d.Join(c, keyA)
	assert.False(t, left)

	prev, left := d.Join(c, keyB)
	assert.True(t, left)
	assert.Equal(t, keyA, prev)

	assert.Empty(t, d.Members(keyA))
	require.Len(t, d.Members(keyB), 1)

	cur, ok := d.SessionOf(c)
	require.True(t, ok)
	assert.Equal(t, keyB, cur)
}

func TestDirectory_RejoinSameSessionIsNoop(t *testing.T) {
	d := NewDirectory()
	c := newMockConn(1, "Aarav")
	key := SessionKey{ResourceType: "book", ResourceID: 42}

	d.Join(c, key)
	_, left := d.Join(c, key)

	assert.False(t, left)
	assert.Len(t, d.Members(key), 1)
}

func TestDirectory_MembershipMatchesConnectionState(t *testing.T) {
	d := NewDirectory()
	keyA := SessionKey{ResourceType: "book", ResourceID: 42}
	keyB := SessionKey{ResourceType: "document", ResourceID: 3}
	conns := []*mockConn{
		newMockConn(1, "Aarav"),
		newMockConn(2, "Bhavna"),
		newMockConn(3, "Chitra"),
	}

	d.Join(conns[0], keyA)
	d.Join(conns[1], keyA)
	d.Join(conns[2], keyB)
	d.Join(conns[1], keyB)
	d.Leave(conns[0])

	for _, key := range []SessionKey{keyA, keyB} {
		members := d.Members(key)
		// Every member's own session key points back at this session.
		for _, m := range members {
			got, ok := d.SessionOf(m)
			require.True(t, ok)
			assert.Equal(t, key, got)
		}
		// And every connection pointing at this session is a member.
		count := 0
		for _, c := range conns {
			if got, ok := d.SessionOf(c); ok && got == key {
				count++
			}
		}
		assert.Len(t, members, count)
	}
}

func TestDirectory_EmptySessionsAreDiscarded(t *testing.T) {
	d := NewDirectory()
	key := SessionKey{ResourceType: "book", ResourceID: 42}
	c := newMockConn(1, "Aarav")

	d.Join(c, key)
	assert.Equal(t, 1, d.Sessions())

	gone, ok := d.Leave(c)
	require.True(t, ok)
	assert.Equal(t, key, gone)
	assert.Equal(t, 0, d.Sessions())

	// A fresh join creates a new session with exactly one member.
	d.Join(c, key)
	assert.Equal(t, 1, d.Sessions())
	assert.Len(t, d.Members(key), 1)
}

func TestDirectory_LeaveWhileUnjoined(t *testing.T) {
	d := NewDirectory()
	c := newMockConn(1, "Aarav")

	_, ok := d.Leave(c)
	assert.False(t, ok)
}

func TestRegistry_Lifecycle(t *testing.T) {
	r := NewRegistry()
	c := newMockConn(1, "Aarav")

	r.Register(c)
	assert.True(t, r.Contains(c))
	assert.Equal(t, 1, r.Count())

	assert.True(t, r.Unregister(c))
	assert.False(t, r.Contains(c))
	assert.Equal(t, 0, r.Count())

	// Double unregister reports false.
	assert.False(t, r.Unregister(c))
}
