package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/unclebandit/neura-backend/internal/model"
)

type ContentIdeaRepositoryInterface interface {
	Create(ctx context.Context, idea *model.ContentIdea) error
}

type ContentIdeaRepository struct {
	DB *sql.DB
}

// Create inserts the idea and sets its generated ID.
func (r *ContentIdeaRepository) Create(ctx context.Context, idea *model.ContentIdea) error {
	idea.CreatedAt = time.Now()
	if idea.Hooks == nil {
		idea.Hooks = []string{}
	}
	query := `
        INSERT INTO content_ideas (user_id, title, content, category, format, hooks, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRowContext(ctx, query,
		idea.UserID,
		idea.Title,
		idea.Content,
		idea.Category,
		idea.Format,
		pq.Array(idea.Hooks),
		idea.CreatedAt,
	).Scan(&idea.ID)
}

var _ ContentIdeaRepositoryInterface = (*ContentIdeaRepository)(nil)
