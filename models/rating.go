package models

import (
	"fmt"
	"time"
)

// Bayesian prior pulling low-volume averages toward the global baseline.
const (
	RatingPriorAverage = 4.5
	RatingPriorWeight  = 10.0
)

// RatingStats carries a running rating average plus a Bayesian-shrunk score,
// and the same pair scoped to the current ISO week for weekly rankings.
type RatingStats struct {
	Average       float64 `bson:"average" json:"average"`
	Count         int64   `bson:"count" json:"count"`
	WeightedScore float64 `bson:"weightedScore" json:"weightedScore"`

	WeekKey     string  `bson:"weekKey,omitempty" json:"weekKey,omitempty"`
	WeekAverage float64 `bson:"weekAverage" json:"weekAverage"`
	WeekCount   int64   `bson:"weekCount" json:"weekCount"`
	WeekScore   float64 `bson:"weekScore" json:"weekScore"`
}

// ISOWeekKey derives the year-week identifier (e.g. "2026-W35") from a UTC instant.
func ISOWeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func shrink(avg float64, count int64) float64 {
	n := float64(count)
	return (n/(n+RatingPriorWeight))*avg + (RatingPriorWeight/(n+RatingPriorWeight))*RatingPriorAverage
}

// Apply folds one rating into the running and weekly aggregates. The weekly
// window resets whenever the current ISO week differs from the stored key.
func (rs *RatingStats) Apply(rating int, now time.Time) {
	total := rs.Average*float64(rs.Count) + float64(rating)
	rs.Count++
	rs.Average = total / float64(rs.Count)
	rs.WeightedScore = shrink(rs.Average, rs.Count)

	wk := ISOWeekKey(now)
	if rs.WeekKey != wk {
		rs.WeekKey = wk
		rs.WeekAverage = 0
		rs.WeekCount = 0
	}
	weekTotal := rs.WeekAverage*float64(rs.WeekCount) + float64(rating)
	rs.WeekCount++
	rs.WeekAverage = weekTotal / float64(rs.WeekCount)
	rs.WeekScore = shrink(rs.WeekAverage, rs.WeekCount)
}
