package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InviteCode struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"campaign_id"`
	Code        string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`
	RoleToGrant Role       `gorm:"type:varchar(16);not null;default:player" json:"role_to_grant"`
	MaxUses     int        `gorm:"not null;default:1" json:"max_uses"`
	UsedCount   int        `gorm:"not null;default:0" json:"used_count"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Revoked     bool       `gorm:"not null;default:false" json:"revoked"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (InviteCode) TableName() string { return "invite_codes" }

func (c *InviteCode) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Expired reports whether the code's deadline has passed at the given time.
// Codes without a deadline never expire.
func (c *InviteCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}
