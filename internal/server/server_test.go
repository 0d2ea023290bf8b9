package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/simonsays/internal/game"
)

func testState(score int) game.DisplayState {
	return game.DisplayState{
		Round:       1,
		Instruction: "Simon says Paper",
		Gesture:     game.WaitingText,
		Score:       score,
		WinScore:    game.WinScore,
	}
}

func TestServer_Health(t *testing.T) {
	s := New(Config{Hub: NewHub("session-1", nil)})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}
		if response["session"] != "session-1" {
			t.Errorf("expected session 'session-1', got %v", response["session"])
		}
		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestServer_State(t *testing.T) {
	hub := NewHub("session-2", nil)
	s := New(Config{Hub: hub})

	hub.Publish(testState(2), nil)
	hub.Publish(testState(3), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var snap Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if snap.Session != "session-2" || snap.Seq != 2 {
		t.Errorf("unexpected snapshot header %+v", snap)
	}
	if snap.State != testState(3) {
		t.Errorf("state = %+v, want %+v", snap.State, testState(3))
	}
}

func TestServer_Metrics(t *testing.T) {
	t.Run("disabled without collectors", func(t *testing.T) {
		s := New(Config{})
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("exports game events", func(t *testing.T) {
		m := NewMetrics()
		s := New(Config{Metrics: m})

		m.RoundStarted(game.RoundState{Number: 1})
		m.Verdict(game.Verdict{Outcome: game.Correct, Delta: 1}, 1)

		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		body := rec.Body.String()
		for _, want := range []string{
			"simonsays_rounds_total 1",
			`simonsays_verdicts_total{outcome="correct"} 1`,
			"simonsays_score 1",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("metrics missing %q", want)
			}
		}
	})
}

func TestServer_StateSocket(t *testing.T) {
	hub := NewHub("session-3", nil)
	hub.Publish(testState(0), nil)

	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snap Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	if snap.Session != "session-3" || snap.State.Score != 0 {
		t.Errorf("unexpected initial snapshot %+v", snap)
	}

	// Wait for the handler to subscribe before publishing.
	deadline := time.Now().Add(5 * time.Second)
	for hub.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	hub.Publish(testState(1), nil)
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if snap.State.Score != 1 {
		t.Errorf("update score = %d, want 1", snap.State.Score)
	}
}

func TestServer_Stream(t *testing.T) {
	hub := NewHub("", nil)
	frame := []byte{0xFF, 0xD8, 0x01, 0x02, 0xFF, 0xD9}
	hub.Publish(testState(0), frame)

	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Errorf("unexpected Content-Type %q", ct)
	}

	header := fmt.Sprintf("--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(frame))
	buf := make([]byte, len(header)+len(frame))
	if _, err := io.ReadFull(bufio.NewReader(resp.Body), buf); err != nil {
		t.Fatalf("read part: %v", err)
	}
	if string(buf[:len(header)]) != header {
		t.Errorf("part header = %q, want %q", buf[:len(header)], header)
	}
	if string(buf[len(header):]) != string(frame) {
		t.Error("part body does not match the published frame")
	}
}

func TestNew(t *testing.T) {
	t.Run("creates a hub when none is given", func(t *testing.T) {
		s := New(Config{})
		if s.hub == nil {
			t.Fatal("expected a hub")
		}
	})

	t.Run("server implements http.Handler", func(t *testing.T) {
		s := New(Config{})
		var _ http.Handler = s
	})
}

func TestServer_ServeShutsDownOpenStream(t *testing.T) {
	hub := NewHub("", nil)
	hub.Publish(testState(0), []byte{0xFF, 0xD8, 0xFF, 0xD9})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- New(Config{Hub: hub}).Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/stream")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	// The first part proves the stream handler is running.
	if _, err := bufio.NewReader(resp.Body).ReadString('\n'); err != nil {
		t.Fatalf("read part: %v", err)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v, want nil", err)
		}
	case <-time.After(shutdownTimeout / 2):
		t.Fatal("Serve did not return while a stream was open")
	}
}
