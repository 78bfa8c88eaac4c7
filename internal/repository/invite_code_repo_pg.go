package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"deepdelve/campaignhub/internal/model"
)

type pgInviteCodeRepository struct {
	db *gorm.DB
}

func NewPGInviteCodeRepository(db *gorm.DB) InviteCodeRepository {
	return &pgInviteCodeRepository{db: db}
}

func (r *pgInviteCodeRepository) Create(ctx context.Context, code *model.InviteCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *pgInviteCodeRepository) GetByCode(ctx context.Context, code string) (*model.InviteCode, error) {
	var inviteCode model.InviteCode
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&inviteCode).Error; err != nil {
		return nil, err
	}
	return &inviteCode, nil
}

func (r *pgInviteCodeRepository) Redeem(ctx context.Context, code string, userID uuid.UUID, now time.Time) (*model.InviteCode, RedeemOutcome, error) {
	var (
		invite  model.InviteCode
		outcome = RedeemOK
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("code = ?", code).First(&invite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome = RedeemNotFound
				return nil
			}
			return err
		}

		// Terminal states, checked in precedence order.
		if invite.Revoked {
			outcome = RedeemRevoked
			return nil
		}
		if invite.Expired(now) {
			outcome = RedeemExpired
			return nil
		}

		// Capacity check and increment as one conditional update. Zero rows
		// affected means another redeemer consumed the last use first.
		res := tx.Model(&model.InviteCode{}).
			Where("id = ? AND used_count < max_uses", invite.ID).
			UpdateColumn("used_count", gorm.Expr("used_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			outcome = RedeemExhausted
			return nil
		}
		invite.UsedCount++

		member := &model.CampaignMember{
			CampaignID: invite.CampaignID,
			UserID:     userID,
			Role:       invite.RoleToGrant,
			JoinedAt:   now,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campaign_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"role": invite.RoleToGrant}),
		}).Create(member).Error
	})
	if err != nil {
		return nil, outcome, err
	}
	if outcome != RedeemOK {
		return nil, outcome, nil
	}
	return &invite, RedeemOK, nil
}

// Revoke marks the code revoked. Already-revoked codes are a no-op.
func (r *pgInviteCodeRepository) Revoke(ctx context.Context, campaignID uuid.UUID, code string) (*model.InviteCode, error) {
	res := r.db.WithContext(ctx).
		Model(&model.InviteCode{}).
		Where("campaign_id = ? AND code = ?", campaignID, code).
		Update("revoked", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByCode(ctx, code)
}

func (r *pgInviteCodeRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]model.InviteCode, error) {
	var codes []model.InviteCode
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Find(&codes).Error
	return codes, err
}

func (r *pgInviteCodeRepository) List(ctx context.Context) ([]model.InviteCode, error) {
	var codes []model.InviteCode
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}
