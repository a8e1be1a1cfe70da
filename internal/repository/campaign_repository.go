package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	appErrors "github.com/unclebandit/neura-backend/internal/errors"
	"github.com/unclebandit/neura-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, c *model.Campaign) error
	GetByID(ctx context.Context, userID string, id int) (*model.Campaign, error)
	UpdateStatus(ctx context.Context, userID string, id int, status string) error
	ListCampaigns(ctx context.Context, userID string, offset, limit int, status string) ([]*model.Campaign, int, error)
	Delete(ctx context.Context, userID string, id int) error
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, user_id, objective, niche, start_date, end_date, status, created_at, updated_at`

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.CampaignStatusDraft
	}
	query := `
        INSERT INTO campaigns (user_id, objective, niche, start_date, end_date, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRowContext(ctx, query,
		c.UserID, c.Objective, c.Niche, c.StartDate, c.EndDate, c.Status, c.CreatedAt,
	).Scan(&c.ID)
}

// UpdateStatus scopes the write to the owner; a miss is reported as not found.
func (r *CampaignRepository) UpdateStatus(ctx context.Context, userID string, id int, status string) error {
	query := `UPDATE campaigns SET status=$1, updated_at=$2 WHERE id=$3 AND user_id=$4`
	res, err := r.DB.ExecContext(ctx, query, status, time.Now(), id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res, id)
}

func (r *CampaignRepository) GetByID(ctx context.Context, userID string, id int) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1 AND user_id=$2`
	c, err := scanCampaign(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) ListCampaigns(ctx context.Context, userID string, offset, limit int, status string) ([]*model.Campaign, int, error) {
	campaigns := []*model.Campaign{}
	where := ` WHERE user_id=$1`
	args := []interface{}{userID}
	argPos := 2

	if status != "" {
		where += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}

	query := `SELECT ` + campaignColumns + ` FROM campaigns` + where +
		fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	pageArgs := append(append([]interface{}{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM campaigns`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

// Delete removes the campaign; its steps go with it through ON DELETE CASCADE.
func (r *CampaignRepository) Delete(ctx context.Context, userID string, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM campaigns WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res, id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCampaign(row rowScanner) (*model.Campaign, error) {
	var c model.Campaign
	var niche sql.NullString
	var updated sql.NullTime
	if err := row.Scan(&c.ID, &c.UserID, &c.Objective, &niche, &c.StartDate, &c.EndDate, &c.Status, &c.CreatedAt, &updated); err != nil {
		return nil, err
	}
	c.Niche = niche.String
	if updated.Valid {
		c.UpdatedAt = &updated.Time
	}
	return &c, nil
}

func requireAffected(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return appErrors.NewCampaignNotFound(id)
	}
	return nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
