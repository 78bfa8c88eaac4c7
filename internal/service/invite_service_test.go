package service

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepdelve/campaignhub/internal/model"
)

var codeFormat = regexp.MustCompile(`^[0-9A-F]{10}$`)

func TestIssueCodeDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	campaign, err := env.campaignSvc.CreateCampaign(ctx, owner, "The Redmire Run")
	require.NoError(t, err)

	invite, err := env.inviteSvc.IssueCode(ctx, campaign.ID, owner, "", 0, 0)
	require.NoError(t, err)

	assert.Regexp(t, codeFormat, invite.Code)
	assert.Equal(t, model.RolePlayer, invite.RoleToGrant)
	assert.Equal(t, 1, invite.MaxUses)
	assert.Equal(t, 0, invite.UsedCount)
	assert.False(t, invite.Revoked)
	require.NotNil(t, invite.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), *invite.ExpiresAt, time.Minute)
}

func TestIssueCodeInvalidRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	campaign, err := env.campaignSvc.CreateCampaign(ctx, owner, "")
	require.NoError(t, err)

	_, err = env.inviteSvc.IssueCode(ctx, campaign.ID, owner, "wizard", 1, 60)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestIssueCodeRequiresGM(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()
	player := uuid.New()
	stranger := uuid.New()

	campaign, err := env.campaignSvc.CreateCampaign(ctx, owner, "")
	require.NoError(t, err)
	require.NoError(t, env.memberships.Upsert(ctx, &model.CampaignMember{
		CampaignID: campaign.ID, UserID: player, Role: model.RolePlayer, JoinedAt: time.Now(),
	}))

	_, err = env.inviteSvc.IssueCode(ctx, campaign.ID, stranger, "", 1, 60)
	assert.ErrorIs(t, err, ErrNotMember)

	_, err = env.inviteSvc.IssueCode(ctx, campaign.ID, player, "", 1, 60)
	assert.ErrorIs(t, err, ErrNotGM)

	// Neither rejected attempt may leave a row behind.
	codes, err := env.invites.ListByCampaign(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestRedeemJoinsCampaign(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()
	joiner := uuid.New()

	campaign, err := env.campaignSvc.CreateCampaign(ctx, owner, "")
	require.NoError(t, err)
	invite, err := env.inviteSvc.IssueCode(ctx, campaign.ID, owner, model.RolePlayer, 1, 60)
	require.NoError(t, err)

	// Normalization: leading/trailing space and lowercase input redeem fine.
	got, err := env.inviteSvc.RedeemCode(ctx, joiner, "  "+strings.ToLower(invite.Code)+" ")
	require.NoError(t, err)
	assert.Equal(t, campaign.ID, got)

	member, err := env.memberships.Get(ctx, campaign.ID, joiner)
	require.NoError(t, err)
	assert.Equal(t, model.RolePlayer, member.Role)

	stored, err := env.invites.GetByCode(ctx, invite.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsedCount)
}

func TestRedeemOverwritesRoleWithoutDuplicateMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()
	joiner := uuid.New()

	campaign, err := env.campaignSvc.CreateCampaign(ctx, owner, "")
	require.NoError(t, err)

	playerInvite, err := env.inviteSvc.IssueCode(ctx, campaign.ID, owner, model.RolePlayer, 1, 60)
	require.NoError(t, err)
	gmInvite, err := env.inviteSvc.IssueCode(ctx, campaign.ID, owner, model.RoleGM, 1, 60)
	require.NoError(t, err)

	_, err = env.inviteSvc.RedeemCode(ctx, joiner, playerInvite.Code)
	require.NoError(t, err)
	_, err = env.inviteSvc.RedeemCode(ctx, joiner, gmInvite.Code)
	require.NoError(t, err)

	members, err := env.memberships.ListByCampaign(ctx, campaign.ID)
	require.NoError(t, err)
	// Owner plus the joiner; the second redemption overwrote the role.
	require.Len(t, members, 2)

	member, err := env.memberships.Get(ctx, campaign.ID, joiner)
	require.NoError(t, err)
	assert.Equal(t, model.RoleGM, member.Role)

	// The invite layer is not idempotent: both codes consumed a use.
	stored, err := env.invites.GetByCode(ctx, gmInvite.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsedCount)
}

func TestRedeemUnknownCode(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.inviteSvc.RedeemCode(context.Background(), uuid.New(), "DEADBEEF00")
	assert.ErrorIs(t, err, ErrInviteCodeInvalid)
}

func TestRedeemBlankCode(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.inviteSvc.RedeemCode(context.Background(), uuid.New(), "   ")
	assert.ErrorIs(t, err, ErrCodeRequired)
}

func TestRedeemExpiredCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	campaign, err := env.campaignSvc.CreateCampaign(ctx, owner, "")
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Minute)
	invite := &model.InviteCode{
		CampaignID:  campaign.ID,
		Code:        "ABCDEF0123",
		RoleToGrant: model.RolePlayer,
		MaxUses:     5,
		ExpiresAt:   &past,
		CreatedBy:   owner,
	}
	require.NoError(t, env.invites.Create(ctx, invite))

	// Expired beats remaining uses.
	_, err = env.inviteSvc.RedeemCode(ctx, uuid.New(), invite.Code)
	assert.ErrorIs(t, err, ErrInviteCodeExpired)

	stored, err := env.invites.GetByCode(ctx, invite.Code)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.UsedCount)
}

func TestRedeemRevokedCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	campaign, err := env.campaignSvc.CreateCampaign(ctx, owner, "")
	require.NoError(t, err)
	invite, err := env.inviteSvc.IssueCode(ctx, campaign.ID, owner, model.RolePlayer, 5, 60)
	require.NoError(t, err)

	_, err = env.inviteSvc.RevokeCode(ctx, campaign.ID, owner, invite.Code)
	require.NoError(t, err)

	// Revoked beats remaining uses and the live expiry.
	_, err = env.inviteSvc.RedeemCode(ctx, uuid.New(), invite.Code)
	assert.ErrorIs(t, err, ErrInviteCodeRevoked)
}

func TestRevokeRequiresGMAndCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	campaign, err := env.campaignSvc.CreateCampaign(ctx, owner, "")
	require.NoError(t, err)
	invite, err := env.inviteSvc.IssueCode(ctx, campaign.ID, owner, model.RolePlayer, 1, 60)
	require.NoError(t, err)

	_, err = env.inviteSvc.RevokeCode(ctx, campaign.ID, stranger, invite.Code)
	assert.ErrorIs(t, err, ErrNotMember)

	_, err = env.inviteSvc.RevokeCode(ctx, campaign.ID, owner, "   ")
	assert.ErrorIs(t, err, ErrCodeRequired)

	// Revoking twice is a no-op, not an error.
	first, err := env.inviteSvc.RevokeCode(ctx, campaign.ID, owner, invite.Code)
	require.NoError(t, err)
	assert.True(t, first.Revoked)
	second, err := env.inviteSvc.RevokeCode(ctx, campaign.ID, owner, invite.Code)
	require.NoError(t, err)
	assert.True(t, second.Revoked)
}

func TestConcurrentRedemptionAdmitsExactlyMaxUses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	campaign, err := env.campaignSvc.CreateCampaign(ctx, owner, "")
	require.NoError(t, err)

	const maxUses = 3
	const attempts = 8
	invite, err := env.inviteSvc.IssueCode(ctx, campaign.ID, owner, model.RolePlayer, maxUses, 60)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.inviteSvc.RedeemCode(ctx, uuid.New(), invite.Code)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, exhausted := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, ErrInviteCodeExhausted):
			exhausted++
		}
	}
	assert.Equal(t, maxUses, succeeded)
	assert.Equal(t, attempts-maxUses, exhausted)

	stored, err := env.invites.GetByCode(ctx, invite.Code)
	require.NoError(t, err)
	assert.Equal(t, maxUses, stored.UsedCount)
}
