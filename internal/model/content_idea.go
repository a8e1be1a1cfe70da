// internal/model/content_idea.go
package model

import "time"

type ContentIdea struct {
	ID        int       `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"titulo"`
	Content   string    `db:"content" json:"conteudo"`
	Category  string    `db:"category" json:"categoria"`
	Format    string    `db:"format" json:"formato"`
	Hooks     []string  `db:"hooks" json:"ganchos_sugeridos"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
