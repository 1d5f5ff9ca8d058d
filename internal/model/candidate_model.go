package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Candidate struct {
	Id         uuid.UUID                    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LastName   string                       `gorm:"type:varchar(255);not null;index:idx_candidates_name"`
	FirstName  string                       `gorm:"type:varchar(255);not null;index:idx_candidates_name"`
	Email      string                       `gorm:"type:varchar(255);index"`
	Phone      string                       `gorm:"type:varchar(64)"`
	Title      string                       `gorm:"type:varchar(255)"`
	Experience int                          `gorm:"default:0"`
	Skills     datatypes.JSONSlice[string]  `gorm:"type:jsonb"`
	Education  string                       `gorm:"type:text"`
	Languages  datatypes.JSONSlice[string]  `gorm:"type:jsonb"`
	CreatedAt  time.Time                    `gorm:"autoCreateTime"`
	UpdatedAt  time.Time                    `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt               `gorm:"index"`
}

func (Candidate) TableName() string {
	return "candidates"
}
