package model

import "time"

// Record is one stored instance of an inventory entity. The entity-specific
// columns live in Fields, keyed by column name as declared in the entity's
// Schema. ID is assigned by the database and immutable; SrNumber is a display
// sequence assigned atomically at insert and never used as a lookup key.
type Record struct {
	ID        int64             `json:"id"`
	SrNumber  int64             `json:"sr_number"`
	Fields    map[string]string `json:"-"`
	CreatedBy string            `json:"created_by,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Clone returns a deep copy so callers can mutate fields without aliasing.
func (r Record) Clone() Record {
	out := r
	out.Fields = make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	return out
}

// Field returns the value of an entity-specific field, or "" when unset.
func (r Record) Field(name string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}
