package bridge

import (
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// TypeHeight is the only message kind the host acts on.
const TypeHeight = "height"

// Message is the wire format crossing the sandbox boundary. The content-side
// monitor serializes one per accepted measurement; the host receiver decodes
// and filters them.
type Message struct {
	Type      string  `json:"type"`
	Height    float64 `json:"height"`
	Timestamp int64   `json:"timestamp"` // epoch milliseconds
}

// Decode failure classification. The receiver discards on any of these but
// tracks them separately.
var (
	ErrMalformed   = errors.New("malformed message")
	ErrWrongType   = errors.New("unexpected message type")
	ErrNonPositive = errors.New("missing or non-positive height")
)

// NewHeight builds a height notification stamped with the current time.
func NewHeight(height float64) Message {
	return Message{
		Type:      TypeHeight,
		Height:    height,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Encode serializes a message for transmission.
func Encode(m Message) ([]byte, error) {
	raw, err := sonic.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return raw, nil
}

// Decode parses and validates a raw payload. Anything that is not a
// well-formed height notification with a positive value is rejected.
func Decode(raw []byte) (Message, error) {
	var m Message
	if err := sonic.Unmarshal(raw, &m); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if m.Type != TypeHeight {
		return Message{}, fmt.Errorf("%w: %q", ErrWrongType, m.Type)
	}
	if m.Height <= 0 {
		return Message{}, fmt.Errorf("%w: %v", ErrNonPositive, m.Height)
	}
	return m, nil
}
