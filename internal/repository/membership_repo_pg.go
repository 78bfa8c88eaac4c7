package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"deepdelve/campaignhub/internal/model"
)

type pgMembershipRepository struct {
	db *gorm.DB
}

func NewPGMembershipRepository(db *gorm.DB) MembershipRepository {
	return &pgMembershipRepository{db: db}
}

func (r *pgMembershipRepository) Upsert(ctx context.Context, member *model.CampaignMember) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campaign_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"role": member.Role}),
		}).
		Create(member).Error
}

func (r *pgMembershipRepository) Get(ctx context.Context, campaignID, userID uuid.UUID) (*model.CampaignMember, error) {
	var member model.CampaignMember
	err := r.db.WithContext(ctx).
		First(&member, "campaign_id = ? AND user_id = ?", campaignID, userID).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *pgMembershipRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]model.CampaignMember, error) {
	var members []model.CampaignMember
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (r *pgMembershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CampaignMember, error) {
	var members []model.CampaignMember
	err := r.db.WithContext(ctx).
		Preload("Campaign").
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}
