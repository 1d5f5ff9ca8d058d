package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"smart-hire-be/internal/entity"
	"smart-hire-be/internal/repository/implementation"
	"smart-hire-be/internal/repository/specification"
	"smart-hire-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	candidateRepo := implementation.NewCandidateRepository(gormDB)
	embeddingRepo := implementation.NewCandidateEmbeddingRepository(gormDB)
	assert.NotNil(t, candidateRepo)
	assert.NotNil(t, embeddingRepo)

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check Candidate Repository", func(t *testing.T) {
		count, err := candidateRepo.Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Candidate count: %d", count)
	})

	t.Run("Candidate round trip", func(t *testing.T) {
		candidate := &entity.Candidate{
			Id:         uuid.New(),
			LastName:   "Integration",
			FirstName:  "Test",
			Email:      "test-integration-" + uuid.New().String() + "@example.com",
			Title:      "Développeur Go",
			Experience: 3,
			Skills:     []string{"Go", "PostgreSQL"},
			Languages:  []string{"Français"},
			CreatedAt:  time.Now(),
		}

		err := candidateRepo.Create(context.Background(), candidate)
		assert.NoError(t, err)

		found, err := candidateRepo.FindOne(context.Background(), specification.ByEmail{Email: candidate.Email})
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, candidate.LastName, found.LastName)
			assert.Equal(t, candidate.Experience, found.Experience)
		}

		// Filtered listing by name fragment and experience floor
		filtered, err := candidateRepo.FindAll(context.Background(),
			specification.NameContains{Query: "integration"},
			specification.MinExperience{Years: 2},
		)
		assert.NoError(t, err)
		fromFilter := false
		for _, c := range filtered {
			if c.Id == candidate.Id {
				fromFilter = true
			}
		}
		assert.True(t, fromFilter, "filtered listing should return the inserted candidate")

		none, err := candidateRepo.FindAll(context.Background(),
			specification.NameContains{Query: "integration"},
			specification.MinExperience{Years: candidate.Experience + 1},
		)
		assert.NoError(t, err)
		for _, c := range none {
			assert.NotEqual(t, candidate.Id, c.Id, "experience floor above the candidate must exclude it")
		}

		assert.NoError(t, candidateRepo.Delete(context.Background(), candidate.Id))
	})
}
