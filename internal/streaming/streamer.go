package streaming

import (
	"sync"
	"time"

	"github.com/KevinKickass/StormBridge/internal/channels"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"
)

// Frame is the bus state right after one exchange.
type Frame struct {
	Sequence  uint64            `json:"sequence"`
	Timestamp time.Time         `json:"timestamp"`
	Defaulted int               `json:"defaulted"`
	Channels  channels.Snapshot `json:"channels"`
}

// ToStruct converts the frame into a protobuf Struct for gRPC clients.
func (f *Frame) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"sequence":    f.Sequence,
		"timestamp":   f.Timestamp.UTC().Format(time.RFC3339Nano),
		"defaulted":   f.Defaulted,
		"numeric_in":  floatList(f.Channels.NumericIn),
		"boolean_in":  boolList(f.Channels.BooleanIn),
		"numeric_out": floatList(f.Channels.NumericOut),
		"boolean_out": boolList(f.Channels.BooleanOut),
	})
}

func floatList(arr [channels.Size]float64) []any {
	out := make([]any, len(arr))
	for i, v := range arr {
		out[i] = v
	}
	return out
}

func boolList(arr [channels.Size]bool) []any {
	out := make([]any, len(arr))
	for i, v := range arr {
		out[i] = v
	}
	return out
}

// FrameStreamer fans frames out to subscribers. Slow subscribers miss frames
// instead of blocking the exchange.
type FrameStreamer struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]chan *Frame
	sequence    uint64
	closed      bool
}

func NewFrameStreamer() *FrameStreamer {
	return &FrameStreamer{
		subscribers: make(map[uuid.UUID]chan *Frame),
	}
}

func (s *FrameStreamer) Subscribe() (uuid.UUID, <-chan *Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	ch := make(chan *Frame, 100)
	if s.closed {
		close(ch)
		return id, ch
	}
	s.subscribers[id] = ch
	return id, ch
}

func (s *FrameStreamer) Unsubscribe(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}

// Publish stamps a frame with the next sequence number and broadcasts it.
func (s *FrameStreamer) Publish(snap channels.Snapshot, defaulted int) *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	frame := &Frame{
		Sequence:  s.sequence,
		Timestamp: time.Now(),
		Defaulted: defaulted,
		Channels:  snap,
	}

	for _, ch := range s.subscribers {
		select {
		case ch <- frame:
		default:
			// Skip if channel is full
		}
	}

	return frame
}

// Sequence returns the number of frames published so far.
func (s *FrameStreamer) Sequence() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sequence
}

// Close ends every subscription. Later subscriptions are closed immediately.
func (s *FrameStreamer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}
