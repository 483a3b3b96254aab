package models

// FRQResolution is the result of resolving a batch reference against the
// relational store. The relation is one-to-many: all matches are returned
// and the first row (store order tightened by ORDER BY) is the primary.
type FRQResolution struct {
	IDs     []string `json:"frqIds"`
	Primary string   `json:"primaryFrq,omitempty"`
}

// Resolved reports whether the lookup produced at least one id.
func (r FRQResolution) Resolved() bool {
	return len(r.IDs) > 0
}
