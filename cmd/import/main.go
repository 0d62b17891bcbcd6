package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"expert-hand/models"
	"expert-hand/services"
)

type ImportConfig struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	CSVPath string `envconfig:"ECOSYSTEM_CSV_PATH" default:"dataset_innovation_ecosystem.csv"`
}

func (c *ImportConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func main() {
	log.Println("Starte Ökosystem-Import...")

	_ = godotenv.Load()
	var cfg ImportConfig
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

	importer := services.NewImporter(db, logging)
	result, err := importer.Run(cfg.CSVPath)
	if err != nil {
		log.Fatalf("Import fehlgeschlagen: %v", err)
	}

	log.Printf("Import abgeschlossen: %d Bereiche, %d Experten, %d Verknüpfungen angelegt",
		result.AreasCreated, result.ExpertsCreated, result.LinksCreated)
}
