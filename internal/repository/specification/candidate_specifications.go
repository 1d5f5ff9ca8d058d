package specification

import (
	"strings"

	"gorm.io/gorm"
)

// ByEmail filters candidates by exact email (case insensitive).
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(email) = ?", strings.ToLower(s.Email))
}

// ByFullName filters candidates whose last and first name match
// case-insensitively.
type ByFullName struct {
	LastName  string
	FirstName string
}

func (s ByFullName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(last_name) = ? AND LOWER(first_name) = ?",
		strings.ToLower(s.LastName), strings.ToLower(s.FirstName))
}

// NameContains matches candidates whose combined name contains the query.
type NameContains struct {
	Query string
}

func (s NameContains) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + strings.ToLower(s.Query) + "%"
	return db.Where("LOWER(last_name || ' ' || first_name) LIKE ?", pattern)
}

// MinExperience filters candidates at or above an experience floor.
type MinExperience struct {
	Years int
}

func (s MinExperience) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("experience >= ?", s.Years)
}
