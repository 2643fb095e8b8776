package accounts

import (
	"context"

	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByHandle(ctx context.Context, handle string) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	SetThirdPartyHandle(ctx context.Context, id int64, thirdPartyHandle string) error
}
