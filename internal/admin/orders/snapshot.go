package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry pairs a store-assigned key with its raw order record.
type Entry struct {
	ID     string
	Record Record
}

// Snapshot is the full order collection as enumerated by the store, in the
// store's native key order.
type Snapshot []Entry

// DecodeSnapshot parses the raw JSON payload returned for the orders path.
// An empty or null payload ("no data") yields an empty snapshot. The payload
// is walked token by token because unmarshalling into a Go map would discard
// the store's enumeration order, which downstream consumers rely on for
// stable tie-breaks.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("orders: decode snapshot: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("orders: snapshot is not a JSON object")
	}

	var snap Snapshot
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("orders: decode snapshot key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("orders: unexpected snapshot key token %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("orders: decode snapshot value for %q: %w", key, err)
		}

		// A malformed record still produces exactly one entry; whatever
		// fields fail to parse fall back to their zero values.
		var rec Record
		_ = json.Unmarshal(raw, &rec)

		snap = append(snap, Entry{ID: key, Record: rec})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("orders: decode snapshot close: %w", err)
	}
	return snap, nil
}

// NormalizeSnapshot converts every snapshot entry into a normalized Order,
// preserving the snapshot order. The result is never nil.
func NormalizeSnapshot(snap Snapshot) []Order {
	result := make([]Order, 0, len(snap))
	for _, entry := range snap {
		result = append(result, Normalize(entry.ID, entry.Record))
	}
	return result
}
