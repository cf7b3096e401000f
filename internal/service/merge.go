package service

import (
	"fmt"
	"sort"

	"github.com/jdbravo/vencsync/models"
)

// Merge reconciles the local record set with an inbound remote set using
// last-writer-wins on UpdatedAt.
//
// Rules, applied per id:
//
//   - present only remotely → the remote record is adopted;
//   - present on both sides → the record with the larger UpdatedAt wins,
//     ties favor the remote record (the remote store is the durability
//     authority);
//   - present only locally → the record is retained unchanged. This is what
//     keeps temporary-id inserts alive until the drainer acknowledges them.
//
// Merge is a pure function: inputs are not mutated, and the result is
// sorted by id so it does not depend on input ordering or map iteration.
// A duplicate id inside a single input set violates the cache invariant and
// panics; that is a programming error upstream, not a runtime condition.
func Merge(local, remote []models.Record) []models.Record {
	localIndex := indexByID("local", local)
	remoteIndex := indexByID("remote", remote)

	merged := make(map[string]models.Record, len(localIndex)+len(remoteIndex))

	for id, lr := range localIndex {
		merged[id] = lr
	}

	for id, rr := range remoteIndex {
		lr, existsLocally := localIndex[id]
		if !existsLocally {
			merged[id] = rr
			continue
		}

		// Tie goes to the remote side.
		if rr.UpdatedAt >= lr.UpdatedAt {
			merged[id] = rr
		}
	}

	result := make([]models.Record, 0, len(merged))
	for _, record := range merged {
		result = append(result, record.Clone())
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result
}

func indexByID(side string, records []models.Record) map[string]models.Record {
	index := make(map[string]models.Record, len(records))
	for _, record := range records {
		if _, dup := index[record.ID]; dup {
			panic(fmt.Sprintf("merge: duplicate id %q in %s record set", record.ID, side))
		}
		index[record.ID] = record
	}
	return index
}

// mergeOne applies a single inbound record against its local counterpart,
// equivalent to merging a one-element remote set. It returns the winning
// record and whether the inbound record won.
func mergeOne(local *models.Record, inbound models.Record) (models.Record, bool) {
	if local == nil {
		return inbound, true
	}
	if inbound.UpdatedAt >= local.UpdatedAt {
		return inbound, true
	}
	return *local, false
}
