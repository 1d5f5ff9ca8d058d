package mapper

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"smart-hire-be/internal/entity"
	"smart-hire-be/internal/model"
	"smart-hire-be/pkg/store"
)

type CandidateMapper struct{}

func NewCandidateMapper() *CandidateMapper {
	return &CandidateMapper{}
}

func (m *CandidateMapper) ToEntity(c *model.Candidate) *entity.Candidate {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Candidate{
		Id:         c.Id,
		LastName:   c.LastName,
		FirstName:  c.FirstName,
		Email:      c.Email,
		Phone:      c.Phone,
		Title:      c.Title,
		Experience: c.Experience,
		Skills:     []string(c.Skills),
		Education:  c.Education,
		Languages:  []string(c.Languages),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  c.DeletedAt.Valid,
	}
}

func (m *CandidateMapper) ToModel(c *entity.Candidate) *model.Candidate {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Candidate{
		Id:         c.Id,
		LastName:   c.LastName,
		FirstName:  c.FirstName,
		Email:      c.Email,
		Phone:      c.Phone,
		Title:      c.Title,
		Experience: c.Experience,
		Skills:     datatypes.JSONSlice[string](c.Skills),
		Education:  c.Education,
		Languages:  datatypes.JSONSlice[string](c.Languages),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *CandidateMapper) ToEntities(candidates []*model.Candidate) []*entity.Candidate {
	entities := make([]*entity.Candidate, len(candidates))
	for i, c := range candidates {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

// ToValue converts a persisted candidate into the value object the dialogue
// engine passes around.
func (m *CandidateMapper) ToValue(c *entity.Candidate) store.Candidate {
	return store.Candidate{
		ID:         c.Id.String(),
		LastName:   c.LastName,
		FirstName:  c.FirstName,
		Email:      c.Email,
		Title:      c.Title,
		Experience: c.Experience,
		Skills:     c.Skills,
		Education:  c.Education,
		Languages:  c.Languages,
	}
}

// FromValue builds a new entity from an engine value object, e.g. a
// candidate freshly extracted from a CV.
func (m *CandidateMapper) FromValue(c store.Candidate) *entity.Candidate {
	return &entity.Candidate{
		LastName:   c.LastName,
		FirstName:  c.FirstName,
		Email:      c.Email,
		Title:      c.Title,
		Experience: c.Experience,
		Skills:     c.Skills,
		Education:  c.Education,
		Languages:  c.Languages,
	}
}
