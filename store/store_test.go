package store

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"expert-hand/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("DB-Verbindung fehlgeschlagen: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.InnovationArea{}, &models.Expert{}, &models.ExpertArea{}); err != nil {
		t.Fatalf("Migration fehlgeschlagen: %v", err)
	}
	return db
}

func TestCreateUserDuplicate(t *testing.T) {
	st := New(setupTestDB(t))

	first := models.User{Username: "alice", PasswordHash: "x", Company: "Acme"}
	if err := st.CreateUser(&first); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	second := models.User{Username: "alice", PasswordHash: "y"}
	if err := st.CreateUser(&second); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	// Der Fehlschlag darf keine zweite Zeile hinterlassen
	var count int64
	st.db.Model(&models.User{}).Where("username = ?", "alice").Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 row for alice, got %d", count)
	}
}

// Der Fallback in CreateUser (Race zwischen Vorab-Check und Insert) greift
// nur, wenn die Verbindung Treiberfehler in gorm.ErrDuplicatedKey übersetzt.
func TestDuplicateKeyTranslated(t *testing.T) {
	st := New(setupTestDB(t))

	if err := st.db.Create(&models.User{Username: "alice", PasswordHash: "x"}).Error; err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err := st.db.Create(&models.User{Username: "alice", PasswordHash: "y"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestAreaByNameAbsent(t *testing.T) {
	st := New(setupTestDB(t))
	area, err := st.AreaByName("does not exist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if area != nil {
		t.Errorf("expected nil for absent area, got %+v", area)
	}
}

func TestExpertByIDAbsent(t *testing.T) {
	st := New(setupTestDB(t))
	expert, err := st.ExpertByID(12345)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expert != nil {
		t.Errorf("expected nil for absent expert, got %+v", expert)
	}
}

func TestExpertsForAreaLinkOrder(t *testing.T) {
	st := New(setupTestDB(t))

	area := models.InnovationArea{Name: "AI"}
	if err := st.CreateArea(&area); err != nil {
		t.Fatalf("create area failed: %v", err)
	}

	names := []string{"Müller", "Keller", "Bernasconi"}
	for _, name := range names {
		expert := models.Expert{Name: name}
		if err := st.CreateExpert(&expert); err != nil {
			t.Fatalf("create expert failed: %v", err)
		}
		if err := st.LinkExpertArea(expert.ID, area.ID); err != nil {
			t.Fatalf("link failed: %v", err)
		}
	}
	// Verknüpfung auf eine nicht existierende Expertenzeile wird beim
	// Lesen stillschweigend übersprungen
	if err := st.LinkExpertArea(9999, area.ID); err != nil {
		t.Fatalf("link to missing expert failed: %v", err)
	}

	experts, err := st.ExpertsForArea(area.ID)
	if err != nil {
		t.Fatalf("ExpertsForArea failed: %v", err)
	}
	if len(experts) != len(names) {
		t.Fatalf("expected %d experts, got %d", len(names), len(experts))
	}
	for i, name := range names {
		if experts[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, experts[i].Name, name)
		}
	}
}

func TestExpertsForAreaEmpty(t *testing.T) {
	st := New(setupTestDB(t))
	area := models.InnovationArea{Name: "Biotech"}
	if err := st.CreateArea(&area); err != nil {
		t.Fatalf("create area failed: %v", err)
	}
	experts, err := st.ExpertsForArea(area.ID)
	if err != nil {
		t.Fatalf("ExpertsForArea failed: %v", err)
	}
	if len(experts) != 0 {
		t.Errorf("expected no experts, got %d", len(experts))
	}
}
