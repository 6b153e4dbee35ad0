package engine

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/sales-objectives-api/internal/models"
)

// NumericProgressInput is one assignment joined with its objective. Objective
// is nil when the join failed; such items are skipped.
type NumericProgressInput struct {
	CurrentValue     float64
	IndividualTarget float64
	Objective        *models.Objective
}

// ObjectiveProgress is the capped per-objective progress ratio.
func ObjectiveProgress(in NumericProgressInput) float64 {
	target := in.IndividualTarget
	if in.Objective != nil && in.Objective.CompanyTarget > 0 {
		target = in.Objective.CompanyTarget
	}
	if target < 1 {
		target = 1
	}
	p := in.CurrentValue / target
	if p > 1 {
		p = 1
	}
	if p < 0 {
		p = 0
	}
	return p
}

// WeightedNumericProgress is the weight-averaged progress across assignments.
// An absent weight counts as 1. Returns 0 when nothing carries weight.
func WeightedNumericProgress(items []NumericProgressInput) float64 {
	var weighted, weights float64
	for _, item := range items {
		if item.Objective == nil {
			continue
		}
		w := 1.0
		if item.Objective.Weight != nil {
			w = *item.Objective.Weight
		}
		if w <= 0 {
			continue
		}
		weighted += ObjectiveProgress(item) * w
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return weighted / weights
}

// QualitativeItem is the part of a qualitative objective used for completion rates.
type QualitativeItem struct {
	Status models.ObjectiveStatus
	Weight *float64
}

// QualitativeCompletionRate is completed/total. Weights are not applied.
func QualitativeCompletionRate(items []QualitativeItem) float64 {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, item := range items {
		if item.Status == models.StatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(items))
}

// WeightedQualitativeCompletionRate applies weights to the completion rate.
// Items without a weight are left out. Not used by the reports until product
// decides whether qualitative weights should count.
func WeightedQualitativeCompletionRate(items []QualitativeItem) float64 {
	var completed, total float64
	for _, item := range items {
		if item.Weight == nil || *item.Weight <= 0 {
			continue
		}
		total += *item.Weight
		if item.Status == models.StatusCompleted {
			completed += *item.Weight
		}
	}
	if total == 0 {
		return 0
	}
	return completed / total
}

type AllocationState string

const (
	AllocationUnder    AllocationState = "under_allocated"
	AllocationOver     AllocationState = "over_allocated"
	AllocationBalanced AllocationState = "balanced"
)

// ObjectiveAllocation compares a company target with the sum of individual targets.
type ObjectiveAllocation struct {
	ObjectiveID     uint64          `json:"objective_id"`
	Name            string          `json:"name"`
	CompanyTarget   float64         `json:"company_target"`
	AllocatedTarget float64         `json:"allocated_target"`
	Delta           float64         `json:"delta"`
	State           AllocationState `json:"state"`
	AssignmentCount int             `json:"assignment_count"`
	AchievedValue   float64         `json:"achieved_value"`
}

// CompanyTotals is the dashboard roll-up.
type CompanyTotals struct {
	TotalSales         float64                        `json:"total_sales"`
	Allocations        []ObjectiveAllocation          `json:"allocations"`
	StatusCounts       map[models.ObjectiveStatus]int `json:"status_counts"`
	SkippedAssignments int                            `json:"skipped_assignments"`
}

// CompanyAssignmentInput is one assignment as seen by the dashboard.
type CompanyAssignmentInput struct {
	ObjectiveID      uint64
	CurrentValue     float64
	IndividualTarget float64
	Status           models.ObjectiveStatus
}

// ComputeCompanyTotals sums currency sales and recomputes the allocation delta
// per objective. Assignments referencing an objective missing from objectives
// are skipped and counted.
func ComputeCompanyTotals(objectives []models.Objective, assignments []CompanyAssignmentInput) CompanyTotals {
	byID := make(map[uint64]*models.Objective, len(objectives))
	allocated := make(map[uint64]decimal.Decimal, len(objectives))
	achieved := make(map[uint64]decimal.Decimal, len(objectives))
	counts := make(map[uint64]int, len(objectives))
	for i := range objectives {
		byID[objectives[i].ID] = &objectives[i]
	}

	totals := CompanyTotals{
		StatusCounts: map[models.ObjectiveStatus]int{
			models.StatusPending:      0,
			models.StatusInProgress:   0,
			models.StatusCompleted:    0,
			models.StatusNotCompleted: 0,
		},
	}
	sales := decimal.Zero

	for _, a := range assignments {
		obj, ok := byID[a.ObjectiveID]
		if !ok {
			totals.SkippedAssignments++
			continue
		}
		current := decimal.NewFromFloat(a.CurrentValue)
		if obj.Kind == models.KindCurrency {
			sales = sales.Add(current)
		}
		allocated[obj.ID] = allocated[obj.ID].Add(decimal.NewFromFloat(a.IndividualTarget))
		achieved[obj.ID] = achieved[obj.ID].Add(current)
		counts[obj.ID]++
		totals.StatusCounts[a.Status]++
	}
	totals.TotalSales = sales.InexactFloat64()

	totals.Allocations = make([]ObjectiveAllocation, 0, len(objectives))
	for _, obj := range objectives {
		company := decimal.NewFromFloat(obj.CompanyTarget)
		delta := company.Sub(allocated[obj.ID])
		state := AllocationBalanced
		switch delta.Sign() {
		case 1:
			state = AllocationUnder
		case -1:
			state = AllocationOver
		}
		totals.Allocations = append(totals.Allocations, ObjectiveAllocation{
			ObjectiveID:     obj.ID,
			Name:            obj.Name,
			CompanyTarget:   obj.CompanyTarget,
			AllocatedTarget: allocated[obj.ID].InexactFloat64(),
			Delta:           delta.InexactFloat64(),
			State:           state,
			AssignmentCount: counts[obj.ID],
			AchievedValue:   achieved[obj.ID].InexactFloat64(),
		})
	}
	sort.Slice(totals.Allocations, func(i, j int) bool {
		return totals.Allocations[i].ObjectiveID < totals.Allocations[j].ObjectiveID
	})

	return totals
}
