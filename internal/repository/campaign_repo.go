package repository

import (
	"context"

	"github.com/google/uuid"

	"deepdelve/campaignhub/internal/model"
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign *model.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Campaign, error)
	UpdateData(ctx context.Context, id uuid.UUID, data model.GameData) (*model.Campaign, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
