package gdocai

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ToJSON converts a response or any other value to pretty-printed JSON.
// Protocol buffer messages go through protojson.
func ToJSON(data any) (string, error) {
	switch v := data.(type) {
	case proto.Message:
		jsonData, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal proto: %w", err)
		}
		return string(jsonData), nil
	default:
		jsonData, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal: %w", err)
		}
		return string(jsonData), nil
	}
}

// FromJSON decodes a Document AI response saved with ToJSON, so recorded
// responses can be converted without calling the API
func FromJSON(data []byte, msg proto.Message) error {
	if err := protojson.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal proto: %w", err)
	}
	return nil
}
