package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"deepdelve/campaignhub/internal/model"
)

type pgCampaignRepository struct {
	db *gorm.DB
}

func NewPGCampaignRepository(db *gorm.DB) CampaignRepository {
	return &pgCampaignRepository{db: db}
}

func (r *pgCampaignRepository) Create(ctx context.Context, campaign *model.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

func (r *pgCampaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Campaign, error) {
	var campaign model.Campaign
	if err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// UpdateData overwrites the data blob and returns the campaign with its
// refreshed updated_at timestamp.
func (r *pgCampaignRepository) UpdateData(ctx context.Context, id uuid.UUID, data model.GameData) (*model.Campaign, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Campaign{}).
		Where("id = ?", id).
		Update("data", data)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes memberships and invite codes along with the campaign.
// The campaign row itself is soft-deleted.
func (r *pgCampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", id).Delete(&model.CampaignMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("campaign_id = ?", id).Delete(&model.InviteCode{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Campaign{}, "id = ?", id).Error
	})
}
