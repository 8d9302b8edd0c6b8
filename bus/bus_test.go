package bus

import (
	"testing"
	"time"
)

func recvOne(t *testing.T, sub *Subscription) *Message {
	t.Helper()
	select {
	case m := <-sub.Channel():
		return m
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message")
		return nil
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("status", "heating"))
	conn.Publish(conn.NewMessage(T("status", "heating"), "hello", false))

	got := recvOne(t, sub)
	if got.Payload.(string) != "hello" {
		t.Errorf("payload = %v, want hello", got.Payload)
	}
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("config", "control"), "persist", true))

	sub := conn.Subscribe(T("config", "control"))
	got := recvOne(t, sub)
	if got.Payload.(string) != "persist" {
		t.Errorf("retained payload = %v, want persist", got.Payload)
	}
}

func TestRetained_ClearedByNilPayload(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("config", "control"), "v1", true))
	conn.Publish(conn.NewMessage(T("config", "control"), nil, true))

	sub := conn.Subscribe(T("config", "control"))
	select {
	case m := <-sub.Channel():
		t.Fatalf("expected no retained message, got %v", m.Payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWildcard_SingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("ctl", "status", WildOne))

	c.Publish(c.NewMessage(T("ctl", "status", "heating"), 1, false))
	c.Publish(c.NewMessage(T("ctl", "status", "pressure"), 2, false))
	c.Publish(c.NewMessage(T("ctl", "event", "trip"), 3, false))

	got := []int{recvOne(t, sub).Payload.(int), recvOne(t, sub).Payload.(int)}
	if got[0]+got[1] != 3 {
		t.Errorf("got payloads %v, want {1,2}", got)
	}
	select {
	case m := <-sub.Channel():
		t.Fatalf("unexpected extra message: %v", m.Payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWildcard_Tail(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("ctl", WildTail))

	c.Publish(c.NewMessage(T("ctl", "status", "heating"), "a", false))
	c.Publish(c.NewMessage(T("ctl", "tone"), "b", false))
	c.Publish(c.NewMessage(T("config", "control"), "c", false))

	seen := map[string]bool{}
	seen[recvOne(t, sub).Payload.(string)] = true
	seen[recvOne(t, sub).Payload.(string)] = true
	if !seen["a"] || !seen["b"] {
		t.Errorf("missing messages, saw %v", seen)
	}
}

func TestWildcard_RetainedDelivery(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	c.Publish(c.NewMessage(T("config", "control"), "ctl", true))
	c.Publish(c.NewMessage(T("config", "hal"), "hal", true))

	sub := c.Subscribe(T("config", WildTail))
	seen := map[string]bool{}
	seen[recvOne(t, sub).Payload.(string)] = true
	seen[recvOne(t, sub).Payload.(string)] = true
	if !seen["ctl"] || !seen["hal"] {
		t.Errorf("retained wildcard delivery incomplete: %v", seen)
	}
}

func TestQueueOverflow_DropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	sub := c.Subscribe(T("x"))

	for i := 0; i < 5; i++ {
		c.Publish(c.NewMessage(T("x"), i, false))
	}
	// Oldest dropped: the queue should hold the two most recent.
	first := recvOne(t, sub).Payload.(int)
	second := recvOne(t, sub).Payload.(int)
	if first != 3 || second != 4 {
		t.Errorf("got %d,%d; want 3,4", first, second)
	}
}

func TestReply(t *testing.T) {
	b := NewBus(4)
	server := b.NewConnection("server")
	client := b.NewConnection("client")

	reqSub := server.Subscribe(T("svc", "req"))
	repSub := client.Subscribe(T("client", "rep"))

	client.Publish(&Message{Topic: T("svc", "req"), Payload: "ping", ReplyTo: T("client", "rep")})

	req := recvOne(t, reqSub)
	if !req.CanReply() {
		t.Fatal("request not replyable")
	}
	server.Reply(req, "pong", false)

	rep := recvOne(t, repSub)
	if rep.Payload.(string) != "pong" {
		t.Errorf("reply = %v, want pong", rep.Payload)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	sub := c.Subscribe(T("y"))
	sub.Unsubscribe()

	// Publishing after unsubscribe must not panic or deliver.
	c.Publish(c.NewMessage(T("y"), 1, false))
	if _, ok := <-sub.Channel(); ok {
		t.Fatal("channel not closed")
	}
}

func TestDisconnect_ClosesAll(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s1 := c.Subscribe(T("a"))
	s2 := c.Subscribe(T("b"))
	c.Disconnect()

	if _, ok := <-s1.Channel(); ok {
		t.Fatal("s1 not closed")
	}
	if _, ok := <-s2.Channel(); ok {
		t.Fatal("s2 not closed")
	}
}
