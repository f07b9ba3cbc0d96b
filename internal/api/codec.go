package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// codec lets Connect carry plain structs as application/json. It replaces
// the default protojson codec, which only accepts proto messages.
type codec struct{}

var _ connect.Codec = codec{}

func (codec) Name() string { return "json" }

func (codec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return b, nil
}

func (codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}

// WithJSON is the codec option both handlers and clients are built with.
func WithJSON() connect.Option {
	return connect.WithCodec(codec{})
}
