package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
	"github.com/dmitrijs2005/handlekeeper/internal/logging"
	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
	"github.com/dmitrijs2005/handlekeeper/internal/server/repositories/repomanager"
)

const defaultProjectListLimit = 50

type ProjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ProjectService {
	return &ProjectService{db: db, repomanager: m, log: log.With("module", "projects")}
}

// Create stores a project attributed to the given account.
func (s *ProjectService) Create(ctx context.Context, ownerID int64, ownerHandle string, in ProjectInput) (*models.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	p, err := s.repomanager.Projects(s.db).Create(ctx, &models.Project{
		OwnerID:     ownerID,
		OwnerHandle: ownerHandle,
		Title:       in.Title,
		Content:     in.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create project: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "project created", "project_id", p.ID, "owner_id", ownerID)
	return p, nil
}

// List returns the newest projects of the account.
func (s *ProjectService) List(ctx context.Context, ownerID int64) ([]*models.Project, error) {
	ps, err := s.repomanager.Projects(s.db).ListByOwner(ctx, ownerID, defaultProjectListLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: list projects: %v", common.ErrorInternal, err)
	}
	return ps, nil
}
