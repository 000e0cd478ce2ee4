package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is a form field that clients send either as JSON string or number.
// Parsing and validation of the text happen in the use case layer.
type Value string

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected number or string, got %s", data)
	}
	*v = Value(n.String())
	return nil
}

// String returns raw field text.
func (v Value) String() string {
	return string(v)
}

// Optional returns nil for an absent field.
func Optional(v *Value) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
