package event

import (
	"time"

	"github.com/viant/dispatchor/internal/clock"
	"github.com/viant/dispatchor/internal/idgen"
)

// Event types emitted by the dispatcher
const (
	TypeReceived      = "received"
	TypeRejected      = "rejected"
	TypeForcedWait    = "forcedWait"
	TypeAdmitted      = "admitted"
	TypeUndeliverable = "undeliverable"
	TypeStarted       = "started"
	TypeCompleted     = "completed"
)

type Context struct {
	RunID       string `json:"runID"`
	EventType   string `json:"eventType"`
	ServiceID   int    `json:"serviceID"`
	RequestID   int    `json:"requestID"`
	Worker      int    `json:"worker"`
	TimeTakenMs int    `json:"timeTakenMs,omitempty"`
}

type Event[T any] struct {
	ID        string                 `json:"id"`
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		ID:        idgen.New(),
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
