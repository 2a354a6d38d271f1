package proto

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Message field names.
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldUsername     = "username"
	FieldPassword     = "password"
	FieldIdentifier   = "identifier"
	FieldAccount      = "account"
	FieldAccessToken  = "accessToken"
	FieldRefreshToken = "refreshToken"
	FieldClaims       = "claims"
)

// GetString returns the string field key of s, or "" when it is absent or
// not a string.
func GetString(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

// NewStrings builds a message whose fields are all strings.
func NewStrings(kv map[string]string) *structpb.Struct {
	fields := make(map[string]*structpb.Value, len(kv))
	for k, v := range kv {
		fields[k] = structpb.NewStringValue(v)
	}
	return &structpb.Struct{Fields: fields}
}

// ToValue converts any JSON-marshalable value into a Struct-compatible
// value through its JSON form, so json tags define the wire names.
func ToValue(v any) (*structpb.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Value{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

// FromValue is the inverse of ToValue.
func FromValue(v *structpb.Value, dst any) error {
	b, err := protojson.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
