package interview

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"hireflow-backend/internal/shared/telemetry"
)

// Inbound event names.
const (
	eventStartInterview  = "start_interview"
	eventAnswerSubmitted = "answer_submitted"
	eventSkipQuestion    = "skip_question"
	eventRequestSpeech   = "request_speech"
	eventPing            = "ping"
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// wsEmitter serializes writes to one websocket connection. Gorilla allows at
// most one concurrent writer.
type wsEmitter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (e *wsEmitter) Emit(event string, data any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn.WriteJSON(outEnvelope{Event: event, Data: data})
}

// SocketHandler upgrades HTTP requests to interview websocket connections and
// dispatches their events to the orchestrator.
type SocketHandler struct {
	Orchestrator *Orchestrator
	upgrader     websocket.Upgrader
}

// NewSocketHandler constructs a SocketHandler. An empty list or a "*" entry
// accepts any origin; otherwise the request Origin must match an entry exactly.
func NewSocketHandler(orch *Orchestrator, allowedOrigins []string) *SocketHandler {
	return &SocketHandler{
		Orchestrator: orch,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1 << 20,
			WriteBufferSize: 1 << 20,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

// RegisterRoutes attaches the websocket endpoint.
func (h *SocketHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/interview", h.Handle)
}

// Handle serves one interview connection until it closes.
func (h *SocketHandler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		telemetry.Warn("interview.upgrade_failed", map[string]any{"error": err.Error()})
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	em := &wsEmitter{conn: conn}
	ctx := c.Request.Context()

	if err := em.Emit("connected", map[string]any{"message": "Connected to interview server"}); err != nil {
		return
	}

	defer h.Orchestrator.Disconnect(connID)

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				telemetry.Warn("interview.read_failed", map[string]any{"error": err.Error()})
			}
			return
		}

		switch env.Event {
		case eventStartInterview:
			var data struct {
				ApplicationID string `json:"application_id"`
			}
			if err := json.Unmarshal(env.Data, &data); err != nil {
				h.Orchestrator.emitError(em, msgApplicationIDRequired)
				continue
			}
			h.Orchestrator.Start(ctx, connID, data.ApplicationID, em)

		case eventAnswerSubmitted:
			var data struct {
				QuestionID string  `json:"question_id"`
				AnswerText string  `json:"answer_text"`
				AudioData  string  `json:"audio_data"`
				Duration   float64 `json:"duration"`
			}
			if err := json.Unmarshal(env.Data, &data); err != nil {
				h.Orchestrator.emitError(em, msgQuestionMismatch)
				continue
			}
			h.Orchestrator.Submit(ctx, connID, Submission{
				QuestionID: data.QuestionID,
				AnswerText: data.AnswerText,
				AudioData:  data.AudioData,
				Duration:   data.Duration,
			}, em)

		case eventSkipQuestion:
			var data struct {
				QuestionID string `json:"question_id"`
			}
			if err := json.Unmarshal(env.Data, &data); err != nil {
				h.Orchestrator.emitError(em, msgQuestionMismatch)
				continue
			}
			h.Orchestrator.Skip(ctx, connID, data.QuestionID, em)

		case eventRequestSpeech:
			var data struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(env.Data, &data); err != nil {
				continue
			}
			h.Orchestrator.Speech(ctx, data.Text, em)

		case eventPing:
			h.Orchestrator.emit(em, "pong", map[string]any{
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})

		default:
			telemetry.Warn("interview.unknown_event", map[string]any{"event": env.Event})
		}
	}
}
