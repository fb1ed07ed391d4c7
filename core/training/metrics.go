package training

import (
	"math"
	"time"
)

// ComputeDelta returns current - previous rounded to one decimal place.
// It is nil when either reading is missing, including when there is no previous assessment at all.
func ComputeDelta(current, previous *float64) *float64 {
	if current == nil || previous == nil {
		return nil
	}
	d := math.Round((*current-*previous)*10) / 10
	return &d
}

// Metric is one summary card.
type Metric struct {
	Value *float64 `json:"value"`
	Delta *float64 `json:"delta"`
	// InverseIsBetter marks metrics where a decrease is favorable (display polarity only).
	InverseIsBetter bool `json:"inverse_is_better"`
}

func newMetric(current, previous *float64, inverse bool) Metric {
	return Metric{
		Value:           current,
		Delta:           ComputeDelta(current, previous),
		InverseIsBetter: inverse,
	}
}

// Summary holds the dashboard cards built from the two most recent assessments.
type Summary struct {
	HasAssessments bool        `json:"has_assessments"`
	Current        *Assessment `json:"current"`
	Previous       *Assessment `json:"previous"`
	Weight         Metric      `json:"weight"`
	BodyFat        Metric      `json:"body_fat"`
	LeanMass       Metric      `json:"lean_mass"`
}

// Summarize builds the Summary of an assessment history ordered by date descending.
func Summarize(history []Assessment) Summary {
	if len(history) == 0 {
		return Summary{BodyFat: Metric{InverseIsBetter: true}}
	}

	curr := history[0]
	sum := Summary{HasAssessments: true, Current: &curr}

	var prevWeight, prevFat, prevLean *float64
	if len(history) > 1 {
		prev := history[1]
		sum.Previous = &prev
		prevWeight, prevFat, prevLean = prev.WeightKg, prev.BodyFatPct, prev.LeanMassPct
	}

	sum.Weight = newMetric(curr.WeightKg, prevWeight, false)
	sum.BodyFat = newMetric(curr.BodyFatPct, prevFat, true)
	sum.LeanMass = newMetric(curr.LeanMassPct, prevLean, false)
	return sum
}

type ChartPoint struct {
	Date       time.Time `json:"date"`
	WeightKg   *float64  `json:"weight_kg"`
	BodyFatPct *float64  `json:"body_fat_pct"`
}

// EvolutionChart returns the weight/body fat series in chronological order.
// A single assessment makes no evolution, so fewer than two yield nil.
func EvolutionChart(history []Assessment) []ChartPoint {
	if len(history) < 2 {
		return nil
	}
	points := make([]ChartPoint, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		a := history[i]
		points = append(points, ChartPoint{Date: a.Date, WeightKg: a.WeightKg, BodyFatPct: a.BodyFatPct})
	}
	return points
}
