package repository

import (
	"context"

	"github.com/google/uuid"

	"deepdelve/campaignhub/internal/model"
)

type MembershipRepository interface {
	// Upsert inserts a membership row or, when one already exists for the
	// (campaign, user) pair, overwrites its role.
	Upsert(ctx context.Context, member *model.CampaignMember) error
	Get(ctx context.Context, campaignID, userID uuid.UUID) (*model.CampaignMember, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]model.CampaignMember, error)
	// ListByUser returns the caller's memberships with campaigns preloaded,
	// ordered by join time ascending.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CampaignMember, error)
}
