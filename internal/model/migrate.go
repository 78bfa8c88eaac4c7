package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Profile{},
		&Campaign{},
		&CampaignMember{},
		&InviteCode{},
	); err != nil {
		return err
	}

	// Case-insensitive unique username for non-soft-deleted profiles.
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_username_lower " +
			"ON profiles ((lower(username))) WHERE deleted_at IS NULL",
	).Error
}
