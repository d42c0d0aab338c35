package stream

import (
	"encoding/json"
	"testing"
)

func recvOrFail(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev := <-c.Events():
		return ev
	default:
		t.Fatal("expected a buffered event, channel was empty")
		return Event{}
	}
}

func TestHub_PublishReachesSubscriber(t *testing.T) {
	t.Parallel()
	h := NewHub()

	c := h.Subscribe("u1")
	h.Publish("u1", EventCreated, map[string]string{"text": "buy milk"})

	ev := recvOrFail(t, c)
	if ev.Type != EventCreated {
		t.Fatalf("event type: got %q want %q", ev.Type, EventCreated)
	}

	var payload map[string]string
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload["text"] != "buy milk" {
		t.Fatalf("payload text: got %q", payload["text"])
	}
}

func TestHub_TwoChannelsGetIdenticalPayload(t *testing.T) {
	t.Parallel()
	h := NewHub()

	c1 := h.Subscribe("u1")
	c2 := h.Subscribe("u1")
	h.Publish("u1", EventUpdated, map[string]bool{"completed": true})

	ev1 := recvOrFail(t, c1)
	ev2 := recvOrFail(t, c2)
	if string(ev1.Data) != string(ev2.Data) {
		t.Fatalf("payloads differ: %s vs %s", ev1.Data, ev2.Data)
	}
	if ev1.Type != ev2.Type {
		t.Fatalf("types differ: %s vs %s", ev1.Type, ev2.Type)
	}
}

func TestHub_PerUserOrderPreserved(t *testing.T) {
	t.Parallel()
	h := NewHub()

	c := h.Subscribe("u1")
	for i := 0; i < 10; i++ {
		h.Publish("u1", EventCreated, i)
	}

	for i := 0; i < 10; i++ {
		ev := recvOrFail(t, c)
		var got int
		if err := json.Unmarshal(ev.Data, &got); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if got != i {
			t.Fatalf("out of order: got %d at position %d", got, i)
		}
	}
}

func TestHub_CrossUserIsolation(t *testing.T) {
	t.Parallel()
	h := NewHub()

	alice := h.Subscribe("alice")
	bob := h.Subscribe("bob")
	h.Publish("alice", EventDeleted, map[string]string{"id": "t1"})

	recvOrFail(t, alice)
	select {
	case ev := <-bob.Events():
		t.Fatalf("bob received alice's event: %+v", ev)
	default:
	}
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()
	h := NewHub()

	c := h.Subscribe("u1")
	h.Unsubscribe("u1", c)
	h.Publish("u1", EventCreated, "x")

	select {
	case ev := <-c.Events():
		t.Fatalf("received event after unsubscribe: %+v", ev)
	default:
	}
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	t.Parallel()
	h := NewHub()

	// must not panic or block
	h.Publish("nobody", EventList, []string{})
}

func TestHub_SlowSubscriberDoesNotBlockPublisher(t *testing.T) {
	t.Parallel()
	h := NewHub()

	c := h.Subscribe("u1")
	for i := 0; i < clientBuffer+10; i++ {
		h.Publish("u1", EventCreated, i)
	}

	// buffer is full, overflow was dropped, order of what remains holds
	if got := len(c.events); got != clientBuffer {
		t.Fatalf("buffered events: got %d want %d", got, clientBuffer)
	}
	first := recvOrFail(t, c)
	var v int
	if err := json.Unmarshal(first.Data, &v); err != nil || v != 0 {
		t.Fatalf("first buffered event: got %s err %v", first.Data, err)
	}
}

func TestHub_MirrorSeesEveryEvent(t *testing.T) {
	t.Parallel()
	h := NewHub()

	var mirrored []Event
	h.SetMirror(func(userID string, ev Event) {
		if userID != "u1" {
			t.Fatalf("mirror got wrong user: %q", userID)
		}
		mirrored = append(mirrored, ev)
	})

	h.Publish("u1", EventCreated, "a")
	h.Publish("u1", EventDeleted, "b")

	if len(mirrored) != 2 {
		t.Fatalf("mirror call count: got %d want 2", len(mirrored))
	}
	if mirrored[0].Type != EventCreated || mirrored[1].Type != EventDeleted {
		t.Fatalf("mirror order wrong: %s, %s", mirrored[0].Type, mirrored[1].Type)
	}
}

func TestHub_UnencodablePayloadIsDropped(t *testing.T) {
	t.Parallel()
	h := NewHub()

	c := h.Subscribe("u1")
	h.Publish("u1", EventCreated, func() {}) // not JSON-encodable

	select {
	case ev := <-c.Events():
		t.Fatalf("received event for unencodable payload: %+v", ev)
	default:
	}
}

func TestFormatSSE_Framing(t *testing.T) {
	t.Parallel()

	ev, err := NewEvent(EventCreated, map[string]string{"id": "t1"})
	if err != nil {
		t.Fatalf("NewEvent error: %v", err)
	}

	got := FormatSSE(ev)
	want := "event: created\ndata: {\"id\":\"t1\"}\n\n"
	if got != want {
		t.Fatalf("frame mismatch:\ngot  %q\nwant %q", got, want)
	}
}
