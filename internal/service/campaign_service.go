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
	"deepdelve/campaignhub/pkg/rules"
)

const defaultCampaignName = "New Campaign"

// CampaignMembership pairs the caller's role with the campaign itself,
// the listMyCampaigns return shape.
type CampaignMembership struct {
	Role     model.Role     `json:"role"`
	Campaign model.Campaign `json:"campaign"`
}

type CampaignService interface {
	CreateCampaign(ctx context.Context, ownerID uuid.UUID, name string) (*model.Campaign, error)
	GetCampaign(ctx context.Context, campaignID, requesterID uuid.UUID) (*model.Campaign, error)
	ListMyCampaigns(ctx context.Context, userID uuid.UUID) ([]CampaignMembership, error)
	SaveCampaignData(ctx context.Context, campaignID, requesterID uuid.UUID, data model.GameData) (*model.Campaign, error)
	DeleteCampaign(ctx context.Context, campaignID, requesterID uuid.UUID) error
	ListMembers(ctx context.Context, campaignID, requesterID uuid.UUID) ([]model.CampaignMember, error)
	RulesConfig(ctx context.Context, campaignID, requesterID uuid.UUID) (rules.Config, error)
}

type campaignService struct {
	campaignRepo   repository.CampaignRepository
	membershipRepo repository.MembershipRepository
}

func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	membershipRepo repository.MembershipRepository,
) CampaignService {
	return &campaignService{
		campaignRepo:   campaignRepo,
		membershipRepo: membershipRepo,
	}
}

// CreateCampaign inserts the campaign and the owner's gm membership.
// A blank name falls back to the default.
func (s *campaignService) CreateCampaign(ctx context.Context, ownerID uuid.UUID, name string) (*model.Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultCampaignName
	}

	campaign := &model.Campaign{
		Name:    name,
		OwnerID: ownerID,
		Data:    model.GameData{},
	}
	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	member := &model.CampaignMember{
		CampaignID: campaign.ID,
		UserID:     ownerID,
		Role:       model.RoleGM,
		JoinedAt:   time.Now().UTC(),
	}
	if err := s.membershipRepo.Upsert(ctx, member); err != nil {
		return nil, fmt.Errorf("create owner membership: %w", err)
	}
	return campaign, nil
}

func (s *campaignService) GetCampaign(ctx context.Context, campaignID, requesterID uuid.UUID) (*model.Campaign, error) {
	if _, err := requireMembership(ctx, s.membershipRepo, campaignID, requesterID, model.RolePlayer); err != nil {
		return nil, err
	}
	return s.loadCampaign(ctx, campaignID)
}

func (s *campaignService) ListMyCampaigns(ctx context.Context, userID uuid.UUID) ([]CampaignMembership, error) {
	members, err := s.membershipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	out := make([]CampaignMembership, 0, len(members))
	for _, m := range members {
		// Campaign rows soft-deleted after the membership was created
		// preload as zero values; skip them.
		if m.Campaign.ID == uuid.Nil {
			continue
		}
		out = append(out, CampaignMembership{Role: m.Role, Campaign: m.Campaign})
	}
	return out, nil
}

func (s *campaignService) SaveCampaignData(ctx context.Context, campaignID, requesterID uuid.UUID, data model.GameData) (*model.Campaign, error) {
	if _, err := requireMembership(ctx, s.membershipRepo, campaignID, requesterID, model.RoleGM); err != nil {
		return nil, err
	}
	if data == nil {
		data = model.GameData{}
	}

	campaign, err := s.campaignRepo.UpdateData(ctx, campaignID, data)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("save campaign data: %w", err)
	}
	return campaign, nil
}

// DeleteCampaign is owner-only; holding the gm role is not enough.
func (s *campaignService) DeleteCampaign(ctx context.Context, campaignID, requesterID uuid.UUID) error {
	campaign, err := s.loadCampaign(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.OwnerID != requesterID {
		return ErrNotOwner
	}
	if err := s.campaignRepo.Delete(ctx, campaignID); err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	return nil
}

func (s *campaignService) ListMembers(ctx context.Context, campaignID, requesterID uuid.UUID) ([]model.CampaignMember, error) {
	if _, err := requireMembership(ctx, s.membershipRepo, campaignID, requesterID, model.RolePlayer); err != nil {
		return nil, err
	}
	members, err := s.membershipRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (s *campaignService) RulesConfig(ctx context.Context, campaignID, requesterID uuid.UUID) (rules.Config, error) {
	campaign, err := s.GetCampaign(ctx, campaignID, requesterID)
	if err != nil {
		return rules.Config{}, err
	}
	return rules.ConfigForData(campaign.Data), nil
}

func (s *campaignService) loadCampaign(ctx context.Context, campaignID uuid.UUID) (*model.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("load campaign: %w", err)
	}
	return campaign, nil
}

var _ CampaignService = (*campaignService)(nil)
