package projects

import (
	"context"

	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*models.Project, error)
}
