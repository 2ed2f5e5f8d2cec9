package serialize

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct converts any JSON encodable value with an object shape into a
// protobuf Struct, keeping the JSON field names.
func ToStruct(data any) (*structpb.Struct, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("report is not an object: %w", err)
	}

	return structpb.NewStruct(fields)
}

// MarshalProto returns the protobuf wire encoding of data as a Struct.
func MarshalProto(data any) ([]byte, error) {
	s, err := ToStruct(data)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

// UnMarshalProto decodes bytes produced by MarshalProto back into a plain map.
func UnMarshalProto(data []byte) (map[string]any, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s.AsMap(), nil
}
