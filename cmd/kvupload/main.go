package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"expert-hand/services"
	"expert-hand/storage"
)

type UploadConfig struct {
	CSVPath string `envconfig:"ECOSYSTEM_CSV_PATH" default:"dataset_innovation_ecosystem.csv"`

	KVS3Key    string `envconfig:"KV_S3_KEY" required:"true"`
	KVS3Secret string `envconfig:"KV_S3_SECRET" required:"true"`
	KVS3URL    string `envconfig:"KV_S3_URL" required:"true"`
	KVS3Region string `envconfig:"KV_S3_REGION" required:"true"`
	KVS3Bucket string `envconfig:"KV_S3_BUCKET" required:"true"`
}

func main() {
	log.Println("Starte KV-Export...")

	_ = godotenv.Load()
	var cfg UploadConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Fehler beim Laden der Konfiguration: %v", err)
	}

	rows, err := services.LoadEcosystemRows(cfg.CSVPath)
	if err != nil {
		log.Fatalf("Fehler beim Lesen der CSV: %v", err)
	}
	log.Printf("%d Zeilen geladen", len(rows))

	snapshot, err := services.BuildKVSnapshot(rows)
	if err != nil {
		log.Fatalf("Fehler beim Erstellen des Snapshots: %v", err)
	}
	log.Printf("%d Fokusbereiche und %d Kontakte verarbeitet", len(snapshot.Areas), len(snapshot.Contacts))

	// Lokale Snapshot-Dateien zur Verifikation
	if err := writeSnapshotFile("area_kv.json", snapshot.Areas); err != nil {
		log.Fatalf("Fehler beim Schreiben der Area-Snapshot-Datei: %v", err)
	}
	if err := writeSnapshotFile("contact_kv.json", snapshot.Contacts); err != nil {
		log.Fatalf("Fehler beim Schreiben der Contact-Snapshot-Datei: %v", err)
	}
	log.Println("Snapshot-Dateien geschrieben: area_kv.json, contact_kv.json")

	client, err := storage.NewS3Client(cfg.KVS3URL, cfg.KVS3Region, cfg.KVS3Key, cfg.KVS3Secret)
	if err != nil {
		log.Fatalf("Fehler beim Erstellen des S3-Clients: %v", err)
	}

	// Zwei Keyspaces über Prefixe getrennt; einzelne Fehlschläge werden
	// geloggt, brechen den Upload aber nicht ab
	uploaded := 0
	for area, value := range snapshot.Areas {
		key := fmt.Sprintf("areas/%s.json", area)
		if err := storage.UploadObject(client, cfg.KVS3Bucket, key, []byte(value)); err != nil {
			log.Printf("Upload fehlgeschlagen für %s: %v", key, err)
			continue
		}
		uploaded++
	}
	for contactID, value := range snapshot.Contacts {
		key := fmt.Sprintf("contacts/%s.json", contactID)
		if err := storage.UploadObject(client, cfg.KVS3Bucket, key, []byte(value)); err != nil {
			log.Printf("Upload fehlgeschlagen für %s: %v", key, err)
			continue
		}
		uploaded++
	}

	log.Printf("KV-Export abgeschlossen: %d Objekte hochgeladen", uploaded)
}

func writeSnapshotFile(path string, entries map[string]string) error {
	// Werte sind bereits JSON-Strings; für die Datei einmal aufklappen
	expanded := make(map[string]json.RawMessage, len(entries))
	for k, v := range entries {
		expanded[k] = json.RawMessage(v)
	}
	data, err := json.MarshalIndent(expanded, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
