package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"deepdelve/campaignhub/internal/model"
	"deepdelve/campaignhub/internal/repository"
	"deepdelve/campaignhub/pkg/crypto"
)

const (
	defaultMaxUses        = 1
	defaultExpiresMinutes = 24 * 60

	// Re-generate on a code collision a few times before giving up. The
	// code space is large enough that a second collision is effectively a
	// storage fault, not bad luck.
	createAttempts = 5
)

type InviteService interface {
	// IssueCode creates an invite for the campaign. The requester must hold
	// the gm role there.
	IssueCode(ctx context.Context, campaignID, requesterID uuid.UUID, roleToGrant model.Role, maxUses, expiresMinutes int) (*model.InviteCode, error)
	// RedeemCode joins the requester to the code's campaign and returns the
	// campaign id.
	RedeemCode(ctx context.Context, requesterID uuid.UUID, code string) (uuid.UUID, error)
	// RevokeCode marks the code unusable. Revoking twice is a no-op.
	RevokeCode(ctx context.Context, campaignID, requesterID uuid.UUID, code string) (*model.InviteCode, error)
	ListCampaignCodes(ctx context.Context, campaignID, requesterID uuid.UUID) ([]model.InviteCode, error)
	ListAllCodes(ctx context.Context) ([]model.InviteCode, error)
}

type inviteService struct {
	inviteRepo     repository.InviteCodeRepository
	membershipRepo repository.MembershipRepository
}

func NewInviteService(
	inviteRepo repository.InviteCodeRepository,
	membershipRepo repository.MembershipRepository,
) InviteService {
	return &inviteService{
		inviteRepo:     inviteRepo,
		membershipRepo: membershipRepo,
	}
}

func (s *inviteService) IssueCode(ctx context.Context, campaignID, requesterID uuid.UUID, roleToGrant model.Role, maxUses, expiresMinutes int) (*model.InviteCode, error) {
	if _, err := requireMembership(ctx, s.membershipRepo, campaignID, requesterID, model.RoleGM); err != nil {
		return nil, err
	}

	if roleToGrant == "" {
		roleToGrant = model.RolePlayer
	}
	if !model.ValidRole(roleToGrant) {
		return nil, ErrInvalidRole
	}
	if maxUses < 1 {
		maxUses = defaultMaxUses
	}
	if expiresMinutes < 1 {
		expiresMinutes = defaultExpiresMinutes
	}
	expiresAt := time.Now().UTC().Add(time.Duration(expiresMinutes) * time.Minute)

	for attempt := 0; attempt < createAttempts; attempt++ {
		code, err := crypto.GenerateInviteCode()
		if err != nil {
			return nil, fmt.Errorf("generate invite code: %w", err)
		}

		invite := &model.InviteCode{
			CampaignID:  campaignID,
			Code:        code,
			RoleToGrant: roleToGrant,
			MaxUses:     maxUses,
			ExpiresAt:   &expiresAt,
			CreatedBy:   requesterID,
		}
		err = s.inviteRepo.Create(ctx, invite)
		if err == nil {
			return invite, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("create invite code: %w", err)
		}
	}
	return nil, errors.New("could not generate a unique invite code")
}

func (s *inviteService) RedeemCode(ctx context.Context, requesterID uuid.UUID, code string) (uuid.UUID, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return uuid.Nil, ErrCodeRequired
	}

	invite, outcome, err := s.inviteRepo.Redeem(ctx, normalized, requesterID, time.Now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("redeem invite code: %w", err)
	}
	switch outcome {
	case repository.RedeemOK:
		return invite.CampaignID, nil
	case repository.RedeemRevoked:
		return uuid.Nil, ErrInviteCodeRevoked
	case repository.RedeemExpired:
		return uuid.Nil, ErrInviteCodeExpired
	case repository.RedeemExhausted:
		return uuid.Nil, ErrInviteCodeExhausted
	default:
		return uuid.Nil, ErrInviteCodeInvalid
	}
}

func (s *inviteService) RevokeCode(ctx context.Context, campaignID, requesterID uuid.UUID, code string) (*model.InviteCode, error) {
	if _, err := requireMembership(ctx, s.membershipRepo, campaignID, requesterID, model.RoleGM); err != nil {
		return nil, err
	}

	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, ErrCodeRequired
	}

	invite, err := s.inviteRepo.Revoke(ctx, campaignID, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteCodeInvalid
		}
		return nil, fmt.Errorf("revoke invite code: %w", err)
	}
	return invite, nil
}

func (s *inviteService) ListCampaignCodes(ctx context.Context, campaignID, requesterID uuid.UUID) ([]model.InviteCode, error) {
	if _, err := requireMembership(ctx, s.membershipRepo, campaignID, requesterID, model.RoleGM); err != nil {
		return nil, err
	}
	codes, err := s.inviteRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list invite codes: %w", err)
	}
	return codes, nil
}

func (s *inviteService) ListAllCodes(ctx context.Context) ([]model.InviteCode, error) {
	return s.inviteRepo.List(ctx)
}

// NormalizeCode trims whitespace and uppercases, the canonical form codes
// are stored and looked up in.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

var _ InviteService = (*inviteService)(nil)
