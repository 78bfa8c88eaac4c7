package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"deepdelve/campaignhub/internal/model"
	"deepdelve/campaignhub/internal/repository"
)

// requireMembership is the single authorization predicate for campaign
// resources: the requester must hold a membership row, and when requiredRole
// is RoleGM, that membership must carry the gm role. Every campaign and
// invite read/write path goes through this check.
func requireMembership(ctx context.Context, members repository.MembershipRepository, campaignID, userID uuid.UUID, requiredRole model.Role) (*model.CampaignMember, error) {
	member, err := members.Get(ctx, campaignID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}
		return nil, fmt.Errorf("load membership: %w", err)
	}
	if requiredRole == model.RoleGM && member.Role != model.RoleGM {
		return nil, ErrNotGM
	}
	return member, nil
}
