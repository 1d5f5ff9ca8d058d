package entity

import (
	"time"

	"github.com/google/uuid"
)

type Candidate struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastName   string
	FirstName  string
	Email      string
	Phone      string
	Title      string
	Experience int
	Skills     []string
	Education  string
	Languages  []string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
