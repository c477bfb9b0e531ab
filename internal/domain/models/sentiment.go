package models

import "time"

// SourceKind identifies an independent sentiment signal source.
type SourceKind string

const (
	SourceNews    SourceKind = "NEWS"
	SourceAnalyst SourceKind = "ANALYST"
	SourceSocial  SourceKind = "SOCIAL"
)

// Valid reports whether the kind is one of the known sources.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceNews, SourceAnalyst, SourceSocial:
		return true
	}
	return false
}

// SentimentSample is one scalar reading from a single source.
// Score is bounded to [-1, 1] at the adapter boundary.
type SentimentSample struct {
	Symbol string
	Source SourceKind
	Score  float64
	AsOf   time.Time
}

// CompositeSentiment is the derived per-symbol score. PerSource carries
// exactly the samples that entered the combination: a source with no fresh
// sample is absent from the map, never zero-filled.
type CompositeSentiment struct {
	Symbol     string                 `json:"symbol"`
	PerSource  map[SourceKind]float64 `json:"per_source"`
	Composite  float64                `json:"composite"`
	ComputedAt time.Time              `json:"computed_at"`
	Stale      bool                   `json:"stale,omitempty"` // served from fallback cache
}
