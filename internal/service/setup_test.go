package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"deepdelve/campaignhub/internal/model"
	"deepdelve/campaignhub/internal/repository"
)

// setupTestDB opens an in-memory SQLite database. A single connection keeps
// the shared in-memory database alive and serializes concurrent writers.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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
	return db
}

type testEnv struct {
	db          *gorm.DB
	profiles    repository.ProfileRepository
	campaigns   repository.CampaignRepository
	memberships repository.MembershipRepository
	invites     repository.InviteCodeRepository

	campaignSvc CampaignService
	inviteSvc   InviteService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	env := &testEnv{
		db:          db,
		profiles:    repository.NewPGProfileRepository(db),
		campaigns:   repository.NewPGCampaignRepository(db),
		memberships: repository.NewPGMembershipRepository(db),
		invites:     repository.NewPGInviteCodeRepository(db),
	}
	env.campaignSvc = NewCampaignService(env.campaigns, env.memberships)
	env.inviteSvc = NewInviteService(env.invites, env.memberships)
	return env
}
