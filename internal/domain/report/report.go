package report

import (
	"encoding/json"
	"maps"
)

// NormalizedReport is the canonical adapted shape of a report service payload.
// Implementations are treated as immutable once produced.
type NormalizedReport interface {
	// ReportType returns the discriminator of the union
	ReportType() Type
	// IsEmpty reports whether the primary row collection for subtype is empty
	IsEmpty(subtype Subtype) bool
}

// marshalWithExtra encodes v and merges pass-through keys that v does not
// already define.
func marshalWithExtra(v any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	merged := maps.Clone(extra)
	maps.Copy(merged, fields)
	return json.Marshal(merged)
}
