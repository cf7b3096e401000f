package models

import "strings"

// TempIDPrefix tags locally generated identifiers that are pending durable
// assignment by the remote store.
const TempIDPrefix = "tmp_"

// FieldMap holds the business fields of a record (name, date, quantity,
// flags). The engine treats the contents as opaque; only the identity and
// timestamp envelope is interpreted.
type FieldMap map[string]any

// Clone returns a shallow copy of the field map. Values are copied by
// assignment, which is sufficient because field values are scalars after
// JSON round-tripping.
func (m FieldMap) Clone() FieldMap {
	if m == nil {
		return nil
	}
	out := make(FieldMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Record is one synchronized business entity, e.g. an expiration-tracking
// line item. ID is either durable (assigned by the remote store) or
// temporary (locally generated, TempIDPrefix). UpdatedAt is milliseconds
// since epoch, stamped by whichever party mutated the record last; it is the
// sole input to last-writer-wins merging.
type Record struct {
	ID        string   `json:"id"`
	Fields    FieldMap `json:"fields"`
	UpdatedAt int64    `json:"updated_at"`
}

// HasTempID reports whether the record still carries a locally generated id.
func (r Record) HasTempID() bool {
	return IsTempID(r.ID)
}

// Clone returns a copy of the record with its own field map.
func (r Record) Clone() Record {
	r.Fields = r.Fields.Clone()
	return r
}

// IsTempID reports whether id is a locally generated placeholder.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}
