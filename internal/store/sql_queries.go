// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Julián Bravo

package store

const (
	upsertRecord = `
		INSERT INTO records (
			scope_key,
			id,
			fields,
			updated_at
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (scope_key, id) DO UPDATE SET
			fields     = excluded.fields,
			updated_at = excluded.updated_at;`

	getAllRecords = `
		SELECT
			id,
			fields,
			updated_at
		FROM records
		WHERE scope_key = $1
		ORDER BY id;`

	deleteRecord = `
		DELETE FROM records
		WHERE scope_key = $1 AND id = $2;`

	deleteAllRecords = `
		DELETE FROM records
		WHERE scope_key = $1;`

	replaceRecordID = `
		UPDATE records SET
			id = $1
		WHERE scope_key = $2 AND id = $3;`

	enqueueOutboxEntry = `
		INSERT INTO outbox (
			scope_key,
			operation,
			record_id,
			payload,
			enqueued_at,
			last_error
		) VALUES ($1, $2, $3, $4, $5, $6);`

	getAllOutboxEntries = `
		SELECT
			entry_id,
			operation,
			record_id,
			payload,
			enqueued_at,
			last_error
		FROM outbox
		WHERE scope_key = $1
		ORDER BY enqueued_at, entry_id;`

	findOutboxEntryByRecord = `
		SELECT
			entry_id,
			operation,
			record_id,
			payload,
			enqueued_at,
			last_error
		FROM outbox
		WHERE scope_key = $1 AND record_id = $2
		ORDER BY enqueued_at, entry_id
		LIMIT 1;`

	updateOutboxEntry = `
		UPDATE outbox SET
			operation   = $1,
			record_id   = $2,
			payload     = $3,
			enqueued_at = $4,
			last_error  = $5
		WHERE entry_id = $6;`

	deleteOutboxEntry = `
		DELETE FROM outbox
		WHERE entry_id = $1;`

	// json_set keeps the serialized payload's id in lockstep with the
	// record_id column when a temporary id is reassigned.
	replaceOutboxTempID = `
		UPDATE outbox SET
			record_id = $1,
			payload   = json_set(payload, '$.id', $1)
		WHERE scope_key = $2 AND record_id = $3;`
)
