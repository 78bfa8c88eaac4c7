package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleGM     Role = "gm"
	RolePlayer Role = "player"
)

// ValidRole reports whether r is a role an invite code may grant.
func ValidRole(r Role) bool {
	return r == RoleGM || r == RolePlayer
}

// CampaignMember links a user to a campaign. One row per (campaign, user);
// re-joining overwrites the role instead of inserting a second row.
type CampaignMember struct {
	CampaignID uuid.UUID `gorm:"type:uuid;primaryKey" json:"campaign_id"`
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role       Role      `gorm:"type:varchar(16);not null;default:player" json:"role"`
	JoinedAt   time.Time `gorm:"not null" json:"joined_at"`

	Campaign Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`
}

func (CampaignMember) TableName() string { return "campaign_members" }
