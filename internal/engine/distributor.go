package engine

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// SuggestTarget splits a company target equally across active contributors,
// rounded to two decimal places. The suggestion is never persisted by itself.
func SuggestTarget(companyTarget float64, activeCount int) float64 {
	if activeCount <= 0 {
		return 0
	}
	share := decimal.NewFromFloat(companyTarget).
		Div(decimal.NewFromInt(int64(activeCount))).
		Round(2)
	return share.InexactFloat64()
}

// ValidateTarget rejects negative and non-finite individual targets.
func ValidateTarget(target float64) error {
	if math.IsNaN(target) || math.IsInf(target, 0) || target < 0 {
		return ErrInvalidTarget
	}
	return nil
}

// Pair identifies a (objective, contributor) combination.
type Pair struct {
	ObjectiveID   uint64 `json:"objective_id"`
	ContributorID uint64 `json:"contributor_id"`
}

// MissingPairs returns every objective × contributor pair not present in
// existing, ordered by objective then contributor.
func MissingPairs(objectiveIDs, contributorIDs []uint64, existing map[Pair]struct{}) []Pair {
	objs := append([]uint64(nil), objectiveIDs...)
	users := append([]uint64(nil), contributorIDs...)
	sort.Slice(objs, func(i, j int) bool { return objs[i] < objs[j] })
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	var missing []Pair
	for _, objectiveID := range objs {
		for _, contributorID := range users {
			p := Pair{ObjectiveID: objectiveID, ContributorID: contributorID}
			if _, ok := existing[p]; ok {
				continue
			}
			missing = append(missing, p)
		}
	}
	return missing
}
