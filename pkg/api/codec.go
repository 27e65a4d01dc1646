package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// codecName matches the "application/json" content type Connect clients send.
const codecName = "json"

// jsonCodec marshals plain Go message structs. The built-in Connect JSON
// codec only handles protobuf messages.
type jsonCodec struct{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}

// WithJSON is the option every WeSplit handler and client needs.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
