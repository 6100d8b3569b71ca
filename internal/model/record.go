package model

import (
	"encoding/json"
	"time"
)

// Record is one entry of a named collection. Fields is an opaque bag passed
// through to storage untouched.
type Record struct {
	ID         int64
	Collection string
	Fields     map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MarshalJSON flattens the record into {"id": ..., <fields>...}.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for key, value := range r.Fields {
		out[key] = value
	}
	out["id"] = r.ID

	return json.Marshal(out)
}

// CloneFields returns a shallow copy of fields with any "id" key removed.
func CloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		if key == "id" {
			continue
		}
		out[key] = value
	}

	return out
}
