package trace

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/lessonscheduler/solver/internal/shared/infrastructure/eventbus"
)

// WriterConsumer writes every trace event to w as a single JSON line —
// the wire format VISUALIZE=true tracing uses. It implements
// eventbus.EventConsumer so it registers with an InProcessEventBus
// exactly like any other consumer.
type WriterConsumer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterConsumer builds a consumer that writes to w.
func NewWriterConsumer(w io.Writer) *WriterConsumer {
	return &WriterConsumer{w: w}
}

func (c *WriterConsumer) EventTypes() []string {
	return []string{RoutingKeyNodeExpanded, RoutingKeyBacktrack, RoutingKeySolutionFound}
}

func (c *WriterConsumer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	line, err := json.Marshal(event)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err = c.w.Write(append(line, '\n'))
	return err
}
