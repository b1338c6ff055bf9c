package interview

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type wireEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func dialSocket(t *testing.T, orch *Orchestrator) *websocket.Conn {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewSocketHandler(orch, nil).RegisterRoutes(r.Group(""))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/interview"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) wireEvent {
	t.Helper()
	var ev wireEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"event": event, "data": data}); err != nil {
		t.Fatalf("write event: %v", err)
	}
}

func TestSocketFullInterview(t *testing.T) {
	f := newFixture(t, &stubAI{profile: "profile"}, 2)
	conn := dialSocket(t, f.orch)

	ev := readEvent(t, conn)
	if ev.Event != "connected" {
		t.Fatalf("expected connected, got %q", ev.Event)
	}
	var hello struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(ev.Data, &hello); err != nil {
		t.Fatalf("decode connected payload: %v", err)
	}
	if hello.Message != "Connected to interview server" {
		t.Fatalf("unexpected connected message: %q", hello.Message)
	}

	sendEvent(t, conn, "start_interview", map[string]any{"application_id": f.applicationID})

	for i := 1; ; i++ {
		ev = readEvent(t, conn)
		switch ev.Event {
		case "question":
			var q struct {
				QuestionID     string `json:"question_id"`
				Text           string `json:"text"`
				Weightage      int    `json:"weightage"`
				QuestionNumber int    `json:"question_number"`
				TotalQuestions int    `json:"total_questions"`
			}
			if err := json.Unmarshal(ev.Data, &q); err != nil {
				t.Fatalf("decode question: %v", err)
			}
			if q.QuestionNumber != i || q.TotalQuestions != 2 {
				t.Fatalf("unexpected question position: %+v at step %d", q, i)
			}
			if q.Text == "" || q.Weightage != 10 {
				t.Fatalf("unexpected question payload: %+v", q)
			}
			sendEvent(t, conn, "answer_submitted", map[string]any{
				"question_id": q.QuestionID,
				"answer_text": "an answer",
				"duration":    10,
			})
		case "interview_complete":
			var done struct {
				ApplicationID  string  `json:"application_id"`
				TotalScore     float64 `json:"total_score"`
				TotalWeightage int     `json:"total_weightage"`
			}
			if err := json.Unmarshal(ev.Data, &done); err != nil {
				t.Fatalf("decode completion: %v", err)
			}
			if done.ApplicationID != f.applicationID {
				t.Fatalf("unexpected application: %q", done.ApplicationID)
			}
			if done.TotalScore != 20 {
				t.Fatalf("expected total score 20, got %v", done.TotalScore)
			}
			if done.TotalWeightage != 20 {
				t.Fatalf("expected total weightage 20, got %d", done.TotalWeightage)
			}
			return
		default:
			t.Fatalf("unexpected event %q", ev.Event)
		}
	}
}

func TestSocketStartValidation(t *testing.T) {
	f := newFixture(t, &stubAI{}, 1)
	conn := dialSocket(t, f.orch)

	readEvent(t, conn)
	sendEvent(t, conn, "start_interview", map[string]any{"application_id": ""})

	ev := readEvent(t, conn)
	if ev.Event != "error" {
		t.Fatalf("expected error, got %q", ev.Event)
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload.Message != "Application ID required" {
		t.Fatalf("unexpected message: %q", payload.Message)
	}
}

func TestSocketPing(t *testing.T) {
	f := newFixture(t, &stubAI{}, 1)
	conn := dialSocket(t, f.orch)

	readEvent(t, conn)
	sendEvent(t, conn, "ping", map[string]any{})

	ev := readEvent(t, conn)
	if ev.Event != "pong" {
		t.Fatalf("expected pong, got %q", ev.Event)
	}
	var pong struct {
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(ev.Data, &pong); err != nil {
		t.Fatalf("decode pong payload: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, pong.Timestamp); err != nil {
		t.Fatalf("expected RFC3339 timestamp, got %q: %v", pong.Timestamp, err)
	}
}

func TestSocketDisconnectClearsSession(t *testing.T) {
	f := newFixture(t, &stubAI{}, 2)
	conn := dialSocket(t, f.orch)

	readEvent(t, conn)
	sendEvent(t, conn, "start_interview", map[string]any{"application_id": f.applicationID})
	readEvent(t, conn)

	if f.orch.Sessions.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", f.orch.Sessions.Len())
	}

	_ = conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for f.orch.Sessions.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("session was not cleaned up after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
