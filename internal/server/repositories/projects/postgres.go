// Package projects persists the records authenticated accounts create.
package projects

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/handlekeeper/internal/dbx"
	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
)

// PostgresRepository implements project storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the project and fills in its id and creation time.
func (r *PostgresRepository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	query :=
		`INSERT INTO projects (owner_id, owner_handle, title, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		project.OwnerID, project.OwnerHandle, project.Title, project.Content).
		Scan(&project.ID, &project.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return project, nil
}

// ListByOwner returns the newest projects of one account first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*models.Project, error) {
	query := `SELECT id, owner_id, owner_handle, title, content, created_at FROM projects
		WHERE owner_id = $1
		ORDER BY id DESC
		LIMIT $2
		`
	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Project, 0)
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.OwnerHandle, &p.Title, &p.Content, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
