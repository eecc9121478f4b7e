package grpc

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ArgumentError reports command arguments that could not be decoded.
type ArgumentError struct {
	msg string
}

func (e *ArgumentError) Error() string {
	return e.msg
}

func argumentError(format string, args ...any) error {
	return &ArgumentError{msg: fmt.Sprintf(format, args...)}
}

func encodeArgs(args any) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if args == nil {
		return out, nil
	}
	b, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeArgs(args *structpb.Struct, out any) error {
	if args == nil {
		args = new(structpb.Struct)
	}
	b, err := protojson.Marshal(args)
	if err != nil {
		return argumentError("invalid arguments: %v", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return argumentError("invalid arguments: %v", err)
	}
	return nil
}

func toValue(result any) (*structpb.Value, error) {
	b, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Value)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeValue(v *structpb.Value, out any) error {
	b, err := protojson.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// Local date-times arrive without a zone and are read as UTC.
var startDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

func parseStartDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, argumentError("start_date: cannot parse %q", s)
}
