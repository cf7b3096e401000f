package models

// UpdateRequest is the wire body for a remote record update.
type UpdateRequest struct {
	Fields    FieldMap `json:"fields"`
	UpdatedAt int64    `json:"updated_at"`
}
