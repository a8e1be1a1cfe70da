package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/unclebandit/neura-backend/internal/model"
)

type TrendRepositoryInterface interface {
	ListSince(ctx context.Context, since time.Time) ([]model.TrendSample, error)
	UpdateGroupStatus(ctx context.Context, key model.TrendKey, status string, growthRate float64, since time.Time) (int64, error)
	ListLatest(ctx context.Context, region string, since time.Time) ([]model.TrendSample, error)
}

type TrendRepository struct {
	DB *sql.DB
}

const trendColumns = `id, item_name, source, region, value, collected_at, status, growth_rate`

// ListSince returns samples collected at or after since, oldest first.
func (r *TrendRepository) ListSince(ctx context.Context, since time.Time) ([]model.TrendSample, error) {
	query := `SELECT ` + trendColumns + ` FROM trend_samples WHERE collected_at >= $1 ORDER BY collected_at ASC`
	return r.query(ctx, query, since)
}

// UpdateGroupStatus writes the classifier output onto one group's recent rows.
func (r *TrendRepository) UpdateGroupStatus(ctx context.Context, key model.TrendKey, status string, growthRate float64, since time.Time) (int64, error) {
	query := `
        UPDATE trend_samples
        SET status=$1, growth_rate=$2
        WHERE item_name=$3 AND source=$4 AND region=$5 AND collected_at >= $6
    `
	res, err := r.DB.ExecContext(ctx, query, status, growthRate, key.ItemName, key.Source, key.Region, since)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListLatest returns the newest classified row per series, optionally
// filtered by region.
func (r *TrendRepository) ListLatest(ctx context.Context, region string, since time.Time) ([]model.TrendSample, error) {
	query := `
        SELECT DISTINCT ON (item_name, source, region) ` + trendColumns + `
        FROM trend_samples
        WHERE collected_at >= $1 AND status IS NOT NULL`
	args := []interface{}{since}
	if region != "" {
		query += fmt.Sprintf(" AND region=$%d", len(args)+1)
		args = append(args, region)
	}
	query += ` ORDER BY item_name, source, region, collected_at DESC`
	return r.query(ctx, query, args...)
}

func (r *TrendRepository) query(ctx context.Context, query string, args ...interface{}) ([]model.TrendSample, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := []model.TrendSample{}
	for rows.Next() {
		var s model.TrendSample
		var status sql.NullString
		var growth sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.ItemName, &s.Source, &s.Region, &s.Value, &s.CollectedAt, &status, &growth); err != nil {
			return nil, err
		}
		if status.Valid {
			s.Status = &status.String
		}
		if growth.Valid {
			s.GrowthRate = &growth.Float64
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

var _ TrendRepositoryInterface = (*TrendRepository)(nil)
