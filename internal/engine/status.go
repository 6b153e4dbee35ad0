package engine

import (
	"time"

	"github.com/yukikurage/sales-objectives-api/internal/models"
)

// StatusInput carries everything status resolution depends on.
type StatusInput struct {
	CurrentValue      float64
	IndividualTarget  float64
	EndDate           time.Time
	MinimumAcceptable *float64
}

// ResolveStatus derives an assignment status from its current data. The result
// is a pure function of the input and the clock: a completed assignment whose
// value is later corrected below target resolves to in_progress again.
//
// The minimum acceptable threshold is compared directly against the
// contributor's value, without prorating it across contributors.
func ResolveStatus(in StatusInput, now time.Time) models.ObjectiveStatus {
	switch {
	case in.CurrentValue <= 0:
		return models.StatusPending
	case in.CurrentValue >= in.IndividualTarget:
		return models.StatusCompleted
	case EndDatePassed(in.EndDate, now) && in.MinimumAcceptable != nil && in.CurrentValue < *in.MinimumAcceptable:
		return models.StatusNotCompleted
	default:
		return models.StatusInProgress
	}
}

// EndDatePassed reports whether now is past the whole calendar day of endDate.
// End dates are stored as midnight UTC, so the day is read in UTC whatever
// location the driver attached when scanning the column.
func EndDatePassed(endDate, now time.Time) bool {
	if endDate.IsZero() {
		return false
	}
	y, m, d := endDate.UTC().Date()
	dayEnd := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return !now.Before(dayEnd)
}

// StatusInputFor builds the resolver input from persisted records.
func StatusInputFor(a *models.Assignment, o *models.Objective) StatusInput {
	in := StatusInput{
		CurrentValue:     a.CurrentValue,
		IndividualTarget: a.IndividualTarget,
	}
	if o != nil {
		in.EndDate = o.EndDate
		in.MinimumAcceptable = o.MinimumAcceptable
	}
	return in
}
