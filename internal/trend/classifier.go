// Package trend classifies tracked series into lifecycle states from their
// most recent daily samples.
package trend

import (
	"sort"
	"time"

	"github.com/unclebandit/neura-backend/internal/model"
)

const (
	// Window is how far back samples are read for classification.
	Window = 7 * 24 * time.Hour
	// WriteBack bounds which rows of a group receive the computed status.
	WriteBack = 24 * time.Hour
)

type Result struct {
	Velocity     float64
	Acceleration float64
	Status       string
}

// Classify derives velocity, acceleration and status from values ordered
// newest first. Only the first three values are considered.
//
// With exactly two values acceleration is 0, so a growing series is reported
// as peaking rather than emerging until a third day confirms it.
func Classify(values []float64) Result {
	if len(values) < 2 {
		return Result{Status: model.TrendStatusNew}
	}

	velocity := values[0] - values[1]
	var acceleration float64
	if len(values) >= 3 {
		acceleration = velocity - (values[1] - values[2])
	}

	status := model.TrendStatusSaturated
	switch {
	case velocity > 0 && acceleration > 0:
		status = model.TrendStatusEmerging
	case velocity > 0:
		status = model.TrendStatusPeaking
	}

	return Result{Velocity: velocity, Acceleration: acceleration, Status: status}
}

// Group is one (item, source, region) series, newest sample first.
type Group struct {
	Key     model.TrendKey
	Samples []model.TrendSample
}

// Values returns the sample values in group order.
func (g Group) Values() []float64 {
	out := make([]float64, len(g.Samples))
	for i, s := range g.Samples {
		out[i] = s.Value
	}
	return out
}

// Classify runs Classify over the group's values.
func (g Group) Classify() model.TrendStatus {
	r := Classify(g.Values())
	return model.TrendStatus{
		TrendKey:     g.Key,
		Velocity:     r.Velocity,
		Acceleration: r.Acceleration,
		Status:       r.Status,
		Samples:      len(g.Samples),
	}
}

// GroupSamples partitions samples by key. Groups keep the order in which
// their key first appears; samples inside a group are sorted newest first.
func GroupSamples(samples []model.TrendSample) []Group {
	index := make(map[model.TrendKey]int)
	var groups []Group

	for _, s := range samples {
		key := model.TrendKey{ItemName: s.ItemName, Source: s.Source, Region: s.Region}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Samples = append(groups[i].Samples, s)
	}

	for i := range groups {
		sort.SliceStable(groups[i].Samples, func(a, b int) bool {
			return groups[i].Samples[a].CollectedAt.After(groups[i].Samples[b].CollectedAt)
		})
	}
	return groups
}
