package flagvalue

import (
	"bytes"
	"encoding/json"
	"flag"

	"braces.dev/errtrace"
)

// JSONObject is a flag that accepts a JSON object.
// Repeated instances are merged, with later keys winning.
type JSONObject map[string]any

var _ flag.Getter = (*JSONObject)(nil)

// Get returns the decoded object.
func (o *JSONObject) Get() any { return map[string]any(*o) }

// String returns the object re-encoded as JSON.
func (o *JSONObject) String() string {
	if o == nil || len(*o) == 0 {
		return ""
	}
	bs, err := json.Marshal(map[string]any(*o))
	if err != nil {
		return ""
	}
	return string(bs)
}

// Set decodes a JSON object and merges it into this value.
func (o *JSONObject) Set(s string) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return errtrace.Errorf("expected a JSON object: %w", err)
	}
	if m == nil {
		return errtrace.Errorf("expected a JSON object, got null")
	}

	if *o == nil {
		*o = make(JSONObject, len(m))
	}
	for k, v := range m {
		(*o)[k] = v
	}
	return nil
}
