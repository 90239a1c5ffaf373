package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHubDeliversToRegisteredCustomer(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	customerID := uuid.New()
	conn := &Connection{CustomerID: customerID, Send: make(chan []byte, 8)}
	hub.Register(conn)

	// Registration is async; wait for the hub to pick it up
	deadline := time.After(time.Second)
	for hub.ConnectionCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("connection never registered")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if err := hub.SendToCustomerJSON(customerID, map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case data := <-conn.Send:
		var payload map[string]string
		if err := json.Unmarshal(data, &payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload["type"] != "ping" {
			t.Fatalf("unexpected payload: %v", payload)
		}
	case <-time.After(time.Second):
		t.Fatal("payload never delivered")
	}
}

func TestHubSkipsOtherCustomers(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	conn := &Connection{CustomerID: uuid.New(), Send: make(chan []byte, 8)}
	hub.Register(conn)

	deadline := time.After(time.Second)
	for hub.ConnectionCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("connection never registered")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if err := hub.SendToCustomerJSON(uuid.New(), map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-conn.Send:
		t.Fatal("payload delivered to the wrong customer")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	conn := &Connection{CustomerID: uuid.New(), Send: make(chan []byte, 8)}
	hub.Register(conn)

	deadline := time.After(time.Second)
	for hub.ConnectionCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("connection never registered")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	hub.Unregister(conn)

	select {
	case _, ok := <-conn.Send:
		if ok {
			t.Fatal("expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel never closed")
	}
}

func TestHubSendDuringRegisterChurn(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	customerID := uuid.New()
	done := make(chan struct{})

	// Churn sessions for the same customer while payloads fan out, so the
	// race detector sees concurrent map access if the fan-out drops its lock.
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			conn := &Connection{CustomerID: customerID, Send: make(chan []byte, 1)}
			hub.Register(conn)
			hub.Unregister(conn)
		}
	}()

	for i := 0; i < 100; i++ {
		if err := hub.SendToCustomerJSON(customerID, map[string]string{"type": "ping"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session churn never finished")
	}
}
