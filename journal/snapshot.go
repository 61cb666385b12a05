package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeSnapshot serializes the records as a JSON array. The field names
// match the browser journal's "trade_journal_data" blob so exports from it
// load unchanged.
func EncodeSnapshot(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a blob written by EncodeSnapshot. An empty blob is
// an empty journal. Any malformed content is an error and callers start
// from an empty journal instead.
func DecodeSnapshot(blob []byte) ([]Record, error) {
	blob = bytes.TrimSpace(blob)
	if len(blob) == 0 || bytes.Equal(blob, []byte("null")) {
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	for i := range records {
		r := &records[i]
		if r.ID == "" {
			return nil, fmt.Errorf("decode snapshot: record %d has no id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("decode snapshot: duplicate id %s", r.ID)
		}
		seen[r.ID] = struct{}{}
		if !r.Status.Valid() {
			return nil, fmt.Errorf("decode snapshot: record %s has no status", r.ID)
		}
		if !r.Direction.Valid() {
			return nil, fmt.Errorf("decode snapshot: record %s has no direction", r.ID)
		}
	}
	return records, nil
}
