package entities

// Bundle is the materialized input for one scoring request: an entity,
// its events and any prior snapshots the caller keeps.
type Bundle struct {
	Entity  *Entity    `json:"entity"`
	Events  []Event    `json:"events"`
	History []Snapshot `json:"history,omitempty"`
}
