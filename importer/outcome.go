package importer

import (
	"github.com/imalink-project/imalink-sub001/models"
)

// OutcomeKind is the closed set of group dispositions.
type OutcomeKind int

const (
	OutcomeNew OutcomeKind = iota
	OutcomeDuplicate
	OutcomePartial
	OutcomeSkipped
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNew:
		return "new"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomePartial:
		return "partial"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// GroupOutcome reports how one file group was dispositioned. Exactly one of
// the payload fields is meaningful, selected by Kind.
type GroupOutcome struct {
	Kind OutcomeKind

	// Photo is set for OutcomeNew
	Photo *models.Photo
	// Added holds the appended file records for OutcomePartial
	Added []models.ImageFile
	// SkipReason is set for OutcomeSkipped
	SkipReason string
	// Err is set for OutcomeError and wraps a taxonomy sentinel
	Err error
}
