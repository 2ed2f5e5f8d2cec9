// Package serialize renders compression reports for the command line.
package serialize

import (
	"encoding/json"
	"fmt"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatProto Format = "proto"
)

func MarshalJSON(data any) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

func UnMarshalJSON(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}

// Marshal encodes data in the requested format.
func Marshal(format Format, data any) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return MarshalJSON(data)
	case FormatProto:
		return MarshalProto(data)
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}
