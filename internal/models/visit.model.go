package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Visit struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	VisitedAt time.Time `gorm:"autoCreateTime;index"        json:"visited_at"`
	Path      string    `gorm:"type:varchar(255);not null"  json:"path"`
	Referrer  *string   `gorm:"type:varchar(1024)"          json:"referrer"`
	UserAgent *string   `gorm:"type:varchar(1024)"          json:"user_agent"`
	SessionID string    `gorm:"type:varchar(64);not null"   json:"session_id"`
}

func (Visit) TableName() string {
	return "website_visits"
}

func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		v.ID = id.String()
	}
	return nil
}

type VisitTotals struct {
	Total int64 `json:"total"`
	Today int64 `json:"today"`
}
