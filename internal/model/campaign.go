package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameData is the opaque campaign state blob stored in the data column.
// The server never interprets it beyond the rules-profile keys.
type GameData map[string]interface{}

func (d GameData) Value() (driver.Value, error) {
	if d == nil {
		return json.Marshal(GameData{})
	}
	return json.Marshal(d)
}

func (d *GameData) Scan(value interface{}) error {
	if value == nil {
		*d = GameData{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("GameData.Scan: unsupported column type")
	}
	return json.Unmarshal(bytes, d)
}

type Campaign struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Data      GameData       `gorm:"type:jsonb" json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Members []CampaignMember `gorm:"foreignKey:CampaignID" json:"members,omitempty"`
}

func (Campaign) TableName() string { return "campaigns" }

func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
