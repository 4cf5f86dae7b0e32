package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherInvokesHandlersInRegistrationOrder(t *testing.T) {
	var d dispatcher
	var order []string

	d.subscribe(TypeChat, func(Message) { order = append(order, "first") })
	d.subscribe(TypeChat, func(Message) { order = append(order, "second") })
	d.subscribe(TypeUserJoined, func(Message) { order = append(order, "wrong type") })

	d.dispatch(Message{Type: TypeChat, Message: "hi"})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatcherHandlerReceivesFullPayload(t *testing.T) {
	var d dispatcher
	var got Message

	d.subscribe(TypeChat, func(m Message) { got = m })
	d.dispatch(Message{Type: TypeChat, Message: "hello", UserID: 7, Username: "Bhavna"})

	assert.Equal(t, "hello", got.Message)
	assert.Equal(t, 7, got.UserID)
	assert.Equal(t, "Bhavna", got.Username)
}

func TestDispatcherUnsubscribe(t *testing.T) {
	var d dispatcher
	var first, second int

	unsub := d.subscribe(TypeChat, func(Message) { first++ })
	d.subscribe(TypeChat, func(Message) { second++ })

	d.dispatch(Message{Type: TypeChat})
	unsub()
	d.dispatch(Message{Type: TypeChat})
	// Unsubscribing twice has no further effect.
	unsub()
	d.dispatch(Message{Type: TypeChat})

	assert.Equal(t, 1, first)
	assert.Equal(t, 3, second)
}

func TestDispatcherNoHandlers(t *testing.T) {
	var d dispatcher
	assert.NotPanics(t, func() {
		d.dispatch(Message{Type: TypeCursorMove})
	})
}
