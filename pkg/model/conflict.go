package model

type ConflictType string

const (
	ConflictNone ConflictType = "none"
	ConflictSoft ConflictType = "soft"
	ConflictHard ConflictType = "hard"
)

// Severity orders conflict types: none < soft < hard.
func (c ConflictType) Severity() int {
	switch c {
	case ConflictHard:
		return 2
	case ConflictSoft:
		return 1
	default:
		return 0
	}
}

// ConflictCheckRequest is a proposed booking to evaluate. ExcludeBookingID is
// set when re-checking an existing booking so it does not collide with itself.
type ConflictCheckRequest struct {
	OccasionDate     string    `json:"occasionDate"`
	OccasionTime     string    `json:"occasionTime"`
	Venues           VenueList `json:"venues"`
	ExcludeBookingID string    `json:"excludeBookingId,omitempty"`
}

type ConflictResult struct {
	ConflictType    ConflictType `json:"conflictType"`
	ConflictMessage string       `json:"conflictMessage"`
	OccupiedVenues  []string     `json:"occupiedVenues"`
	AvailableVenues []string     `json:"availableVenues"`
}

func (r *ConflictResult) HasConflict() bool {
	return r != nil && r.ConflictType != ConflictNone && r.ConflictType != ""
}
