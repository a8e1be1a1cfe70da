// internal/model/trend.go
package model

import "time"

const (
	TrendStatusNew       = "new"
	TrendStatusEmerging  = "emerging"
	TrendStatusPeaking   = "peaking"
	TrendStatusSaturated = "saturated"
)

// TrendSample is a single collected observation. Status and GrowthRate are
// written back by the classifier; everything else is read-only here.
type TrendSample struct {
	ID          int       `db:"id" json:"id"`
	ItemName    string    `db:"item_name" json:"item_name"`
	Source      string    `db:"source" json:"source"`
	Region      string    `db:"region" json:"region"`
	Value       float64   `db:"value" json:"value"`
	CollectedAt time.Time `db:"collected_at" json:"collected_at"`
	Status      *string   `db:"status" json:"status,omitempty"`
	GrowthRate  *float64  `db:"growth_rate" json:"growth_rate,omitempty"`
}

// TrendKey identifies one tracked series.
type TrendKey struct {
	ItemName string `json:"item_name"`
	Source   string `json:"source"`
	Region   string `json:"region"`
}

type TrendStatus struct {
	TrendKey
	Velocity     float64 `json:"velocity"`
	Acceleration float64 `json:"acceleration"`
	Status       string  `json:"status"`
	Samples      int     `json:"samples"`
}
