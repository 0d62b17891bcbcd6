package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"expert-hand/llm"
	"expert-hand/models"
	"expert-hand/services"
	"expert-hand/store"
)

type SynthesizeConfig struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIModel  string `envconfig:"OPENAI_MODEL" default:"gpt-4o"`

	MinExpertsPerArea int `envconfig:"MIN_EXPERTS_PER_AREA" default:"3"`
}

func (c *SynthesizeConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func main() {
	log.Println("Starte Generierung synthetischer Experten...")

	_ = godotenv.Load()
	var cfg SynthesizeConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Fehler beim Laden der Konfiguration: %v", err)
	}

	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Fehler bei der Datenbankverbindung: %v", err)
	}
	db.AutoMigrate(&models.InnovationArea{}, &models.Expert{}, &models.ExpertArea{})

	st := store.New(db)
	llmClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, logging)
	synthesizer := services.NewSynthesizer(st, llmClient, logging, cfg.MinExpertsPerArea)

	created, err := synthesizer.FillCoverageGaps(context.Background())
	if err != nil {
		log.Fatalf("Generierung fehlgeschlagen: %v", err)
	}

	log.Printf("Generierung abgeschlossen: %d synthetische Experten angelegt", created)
}
