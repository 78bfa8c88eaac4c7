package client

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"deepdelve/campaignhub/internal/config"
	"deepdelve/campaignhub/internal/handler"
	"deepdelve/campaignhub/internal/model"
	"deepdelve/campaignhub/internal/repository"
	"deepdelve/campaignhub/internal/service"
	jwtpkg "deepdelve/campaignhub/pkg/jwt"
)

// newTestServer wires the whole stack against an in-memory database and
// serves it over httptest.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, model.AutoMigrate(db))

	cfg := &config.Config{
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		},
	}

	jwtManager := jwtpkg.NewManager("client-test-key", "campaignhub-test", 15*time.Minute, time.Hour)

	profileRepo := repository.NewPGProfileRepository(db)
	campaignRepo := repository.NewPGCampaignRepository(db)
	membershipRepo := repository.NewPGMembershipRepository(db)
	inviteRepo := repository.NewPGInviteCodeRepository(db)
	stateStore := repository.NewMemoryStateStore()

	authService := service.NewAuthService(profileRepo, stateStore, jwtManager)
	campaignService := service.NewCampaignService(campaignRepo, membershipRepo)
	inviteService := service.NewInviteService(inviteRepo, membershipRepo)

	router := handler.SetupRouter(
		cfg,
		zap.NewNop(),
		jwtManager,
		handler.NewAuthHandler(authService),
		handler.NewCampaignHandler(campaignService),
		handler.NewInviteHandler(inviteService),
		nil,
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c
}

func TestInviteFlowEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	gm := newTestClient(t, srv)
	gmProfile, err := gm.SignUp(ctx, "gm@example.com", "doorkeeper1", "keeper", "")
	require.NoError(t, err)
	assert.Equal(t, "keeper", gmProfile.Username)

	campaign, err := gm.CreateCampaign(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "New Campaign", campaign.Name)
	assert.Equal(t, gmProfile.UserID, campaign.OwnerID)

	invite, err := gm.GenerateInviteCode(ctx, campaign.ID, "", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, "player", invite.RoleToGrant)
	assert.Equal(t, 2, invite.MaxUses)

	player := newTestClient(t, srv)
	_, err = player.SignUp(ctx, "player@example.com", "doorkeeper1", "delver", "")
	require.NoError(t, err)

	// Codes redeem in normalized form.
	joined, err := player.JoinCampaignWithCode(ctx, " "+strings.ToLower(invite.Code))
	require.NoError(t, err)
	assert.Equal(t, campaign.ID, joined)

	memberships, err := player.ListMyCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, "player", memberships[0].Role)
	assert.Equal(t, campaign.ID, memberships[0].Campaign.ID)

	// Players cannot save campaign data.
	_, err = player.SaveCampaignData(ctx, campaign.ID, map[string]interface{}{"scene": "docks"})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	saved, err := gm.SaveCampaignData(ctx, campaign.ID, map[string]interface{}{
		"scene":        "docks",
		"rulesProfile": "Quickstart",
	})
	require.NoError(t, err)
	assert.Equal(t, campaign.ID, saved.ID)

	rules, err := player.GetRulesConfig(ctx, campaign.ID)
	require.NoError(t, err)
	assert.True(t, rules.DifficultyDowngrades)
	assert.False(t, rules.FalloutCheckOnStress)
	assert.False(t, rules.ClearStressOnFallout)

	members, err := player.ListMembers(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestRevokedCodeRejectsJoin(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	gm := newTestClient(t, srv)
	_, err := gm.SignUp(ctx, "gm@example.com", "doorkeeper1", "keeper", "")
	require.NoError(t, err)
	campaign, err := gm.CreateCampaign(ctx, "Redmire")
	require.NoError(t, err)
	invite, err := gm.GenerateInviteCode(ctx, campaign.ID, "player", 5, 60)
	require.NoError(t, err)

	revoked, err := gm.RevokeInviteCode(ctx, campaign.ID, invite.Code)
	require.NoError(t, err)
	assert.True(t, revoked.Revoked)

	player := newTestClient(t, srv)
	_, err = player.SignUp(ctx, "player@example.com", "doorkeeper1", "delver", "")
	require.NoError(t, err)

	_, err = player.JoinCampaignWithCode(ctx, invite.Code)
	assert.ErrorIs(t, err, ErrCodeRevoked)
}

func TestUnauthenticatedAndUnknown(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	anonymous := newTestClient(t, srv)
	_, err := anonymous.CreateCampaign(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	user := newTestClient(t, srv)
	_, err = user.SignUp(ctx, "user@example.com", "doorkeeper1", "user", "")
	require.NoError(t, err)

	_, err = user.JoinCampaignWithCode(ctx, "0123456789")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSignOutDropsSession(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	user := newTestClient(t, srv)
	_, err := user.SignUp(ctx, "user@example.com", "doorkeeper1", "user", "")
	require.NoError(t, err)

	me, err := user.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user", me.Username)

	require.NoError(t, user.SignOut(ctx))

	_, err = user.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
