package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"deepdelve/campaignhub/internal/model"
)

// RedeemOutcome classifies a redemption attempt. The state is derived from
// used_count/max_uses, expires_at and revoked at read time, never stored.
type RedeemOutcome int

const (
	RedeemOK RedeemOutcome = iota
	RedeemNotFound
	RedeemRevoked
	RedeemExpired
	RedeemExhausted
)

type InviteCodeRepository interface {
	Create(ctx context.Context, code *model.InviteCode) error
	GetByCode(ctx context.Context, code string) (*model.InviteCode, error)
	// Redeem consumes one use of the code and upserts the caller's
	// membership in a single transaction. The capacity check and the
	// used_count increment are one conditional update, so concurrent
	// redemptions can never admit more callers than max_uses.
	Redeem(ctx context.Context, code string, userID uuid.UUID, now time.Time) (*model.InviteCode, RedeemOutcome, error)
	Revoke(ctx context.Context, campaignID uuid.UUID, code string) (*model.InviteCode, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]model.InviteCode, error)
	List(ctx context.Context) ([]model.InviteCode, error)
}
