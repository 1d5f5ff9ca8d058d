package dto

import (
	"time"

	"github.com/google/uuid"
)

type CandidateResponse struct {
	Id         uuid.UUID `json:"id"`
	LastName   string    `json:"last_name"`
	FirstName  string    `json:"first_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Title      string    `json:"title"`
	Experience int       `json:"experience"`
	Skills     []string  `json:"skills"`
	Education  string    `json:"education,omitempty"`
	Languages  []string  `json:"languages,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateCandidateRequest struct {
	LastName   string   `json:"last_name" validate:"required"`
	FirstName  string   `json:"first_name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      string   `json:"phone"`
	Title      string   `json:"title" validate:"required"`
	Experience int      `json:"experience" validate:"gte=0"`
	Skills     []string `json:"skills"`
	Education  string   `json:"education"`
	Languages  []string `json:"languages"`
}

type SemanticSearchResponse struct {
	Candidate CandidateResponse `json:"candidate"`
	Score     float64           `json:"score"`
}

// PublishEmbedCandidateMessage is the in-process queue payload asking the
// consumer to (re)compute a candidate's profile embedding.
type PublishEmbedCandidateMessage struct {
	CandidateId uuid.UUID `json:"candidate_id"`
}
