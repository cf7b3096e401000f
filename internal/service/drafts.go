package service

import (
	"sync"

	"dario.cat/mergo"

	"github.com/jdbravo/vencsync/models"
)

// draftOverlay holds per-record uncommitted field edits. Drafts shadow the
// committed record for reads ("draft-over-base") and are discarded when the
// record is committed, remotely updated, or deleted.
type draftOverlay struct {
	mu     sync.RWMutex
	drafts map[string]models.FieldMap
}

func newDraftOverlay() *draftOverlay {
	return &draftOverlay{drafts: make(map[string]models.FieldMap)}
}

// Set merges fields into the record's draft, creating it if needed. Later
// values win per field.
func (d *draftOverlay) Set(id string, fields models.FieldMap) {
	d.mu.Lock()
	defer d.mu.Unlock()

	draft, ok := d.drafts[id]
	if !ok {
		d.drafts[id] = fields.Clone()
		return
	}

	// mergo with override keeps existing draft fields and lets the new
	// edit win where both touch the same field.
	merged := draft.Clone()
	if err := mergo.Merge(&merged, map[string]any(fields), mergo.WithOverride); err != nil {
		// FieldMap merging cannot fail for plain JSON-shaped values;
		// fall back to field-by-field assignment if it ever does.
		for k, v := range fields {
			merged[k] = v
		}
	}
	d.drafts[id] = merged
}

// Field returns the draft value for field, or fallback when the record has
// no draft or the draft does not touch that field.
func (d *draftOverlay) Field(id, field string, fallback any) any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	draft, ok := d.drafts[id]
	if !ok {
		return fallback
	}
	value, ok := draft[field]
	if !ok {
		return fallback
	}
	return value
}

// Take removes and returns the draft for id.
func (d *draftOverlay) Take(id string) (models.FieldMap, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	draft, ok := d.drafts[id]
	if ok {
		delete(d.drafts, id)
	}
	return draft, ok
}

// Clear discards the draft for id, if any.
func (d *draftOverlay) Clear(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.drafts, id)
}

// Rename moves a draft from a temporary id to its durable replacement.
func (d *draftOverlay) Rename(oldID, newID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	draft, ok := d.drafts[oldID]
	if !ok {
		return
	}
	delete(d.drafts, oldID)
	d.drafts[newID] = draft
}
