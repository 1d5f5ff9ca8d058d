package main

import (
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"

	"smart-hire-be/internal/model"
	"smart-hire-be/pkg/database"
)

// Starter pool so the matcher has something to rank before the first
// mailbox sync runs.
func seedCandidates() []model.Candidate {
	return []model.Candidate{
		{
			LastName: "Dupont", FirstName: "Jean", Email: "jean.dupont@gmail.com",
			Title: "Développeur Python Senior", Experience: 6,
			Skills:    datatypes.JSONSlice[string]{"Python", "Django", "PostgreSQL", "Docker", "AWS"},
			Education: "Master Informatique, Université de Lyon",
			Languages: datatypes.JSONSlice[string]{"Français", "Anglais"},
		},
		{
			LastName: "Martin", FirstName: "Sophie", Email: "sophie.martin@outlook.com",
			Title: "Data Scientist", Experience: 4,
			Skills:    datatypes.JSONSlice[string]{"Python", "Machine Learning", "TensorFlow", "SQL", "Pandas"},
			Education: "Ingénieur Centrale Paris",
			Languages: datatypes.JSONSlice[string]{"Français", "Anglais", "Espagnol"},
		},
		{
			LastName: "Bernard", FirstName: "Lucas", Email: "lucas.bernard@gmail.com",
			Title: "Développeur Full Stack JavaScript", Experience: 3,
			Skills:    datatypes.JSONSlice[string]{"JavaScript", "React", "Node.js", "MongoDB", "TypeScript"},
			Education: "Licence Informatique, Université de Bordeaux",
			Languages: datatypes.JSONSlice[string]{"Français", "Anglais"},
		},
		{
			LastName: "Petit", FirstName: "Emma", Email: "emma.petit@yahoo.fr",
			Title: "Ingénieure DevOps", Experience: 5,
			Skills:    datatypes.JSONSlice[string]{"Kubernetes", "Docker", "Terraform", "AWS", "CI/CD", "Linux"},
			Education: "Master Systèmes et Réseaux, INSA Toulouse",
			Languages: datatypes.JSONSlice[string]{"Français", "Anglais"},
		},
		{
			LastName: "Moreau", FirstName: "Thomas", Email: "thomas.moreau@gmail.com",
			Title: "Développeur Java Backend", Experience: 7,
			Skills:    datatypes.JSONSlice[string]{"Java", "Spring Boot", "Kafka", "PostgreSQL", "Microservices"},
			Education: "Ingénieur EPITA",
			Languages: datatypes.JSONSlice[string]{"Français", "Anglais", "Allemand"},
		},
		{
			LastName: "Roux", FirstName: "Camille", Email: "camille.roux@protonmail.com",
			Title: "Développeuse Mobile", Experience: 2,
			Skills:    datatypes.JSONSlice[string]{"Flutter", "Dart", "Kotlin", "Swift", "Firebase"},
			Education: "Master MIAGE, Université de Nantes",
			Languages: datatypes.JSONSlice[string]{"Français", "Anglais"},
		},
		{
			LastName: "Garcia", FirstName: "Antoine", Email: "antoine.garcia@gmail.com",
			Title: "Architecte Cloud", Experience: 9,
			Skills:    datatypes.JSONSlice[string]{"AWS", "Azure", "Terraform", "Python", "Kubernetes"},
			Education: "Ingénieur Télécom Paris",
			Languages: datatypes.JSONSlice[string]{"Français", "Anglais", "Espagnol"},
		},
		{
			LastName: "Lefebvre", FirstName: "Julie", Email: "julie.lefebvre@gmail.com",
			Title: "Ingénieure Sécurité", Experience: 5,
			Skills:    datatypes.JSONSlice[string]{"Pentest", "Cybersécurité", "Python", "SIEM", "ISO 27001"},
			Education: "Master Cybersécurité, Université de Rennes",
			Languages: datatypes.JSONSlice[string]{"Français", "Anglais"},
		},
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🌱 Seeding candidate pool...")

	created, skipped := 0, 0
	for _, c := range seedCandidates() {
		var existing model.Candidate
		if err := db.Where("LOWER(email) = LOWER(?)", c.Email).First(&existing).Error; err == nil {
			color.Yellow("Candidate '%s %s' already exists, skipping...", c.LastName, c.FirstName)
			skipped++
			continue
		}

		c.Id = uuid.New()
		c.CreatedAt = time.Now()
		if err := db.Create(&c).Error; err != nil {
			color.Red("Error creating candidate '%s %s': %v", c.LastName, c.FirstName, err)
		} else {
			color.Green("Created candidate: %s %s (%s)", c.LastName, c.FirstName, c.Title)
			created++
		}
	}

	color.Cyan("✅ Seeding completed: %d created, %d skipped", created, skipped)
	color.Cyan("Run the server and trigger a sync or restart to embed the new profiles.")
}
