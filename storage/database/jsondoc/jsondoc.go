// Package jsondoc holds the JSON document helpers shared by the engines storing records as JSON.
package jsondoc

import (
	"encoding/json"

	"github.com/pkg/errors"
)

func Encode(rec interface{}) ([]byte, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	return doc, nil
}

func Decode(doc []byte, rec interface{}) error {
	if err := json.Unmarshal(doc, rec); err != nil {
		return errors.Wrap(err, "decoding document")
	}
	return nil
}

// FieldEquals reports whether the top-level string field of doc equals value.
// Missing, null and non-string fields never match.
func FieldEquals(doc []byte, field, value string) (bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return false, errors.Wrap(err, "decoding document")
	}
	raw, ok := fields[field]
	if !ok {
		return false, nil
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil {
		return false, nil
	}
	return *s == value, nil
}
