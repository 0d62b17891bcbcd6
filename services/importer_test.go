package services

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"expert-hand/models"
)

const testCSV = `Category,Name,Institution,Description,Contact,Website,Focus Areas
University,Prof. Anna Keller,HSG,Digitalization research,anna.keller@hsg.ch,https://hsg.ch,"Digital Transformation, AI"
Startup,Marco Bernasconi,InnoLab,Prototyping support,marco@innolab.ch,https://innolab.ch,AI
NGO,Verein Zukunft,Zukunft e.V.,Regional outreach,info@zukunft.ch,,"Sustainability, AI"
`

func writeTestCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ecosystem.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write test csv failed: %v", err)
	}
	return path
}

func TestImporterSinglePass(t *testing.T) {
	db := setupTestDB(t)
	path := writeTestCSV(t, testCSV)

	result, err := NewImporter(db, zap.NewNop()).Run(path)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.AreasCreated != 3 {
		t.Errorf("expected 3 areas (Digital Transformation, AI, Sustainability), got %d", result.AreasCreated)
	}
	if result.ExpertsCreated != 3 {
		t.Errorf("expected 3 experts, got %d", result.ExpertsCreated)
	}
	if result.LinksCreated != 5 {
		t.Errorf("expected 5 links, got %d", result.LinksCreated)
	}

	// Verknüpfungen prüfen: AI hat alle drei Experten
	var area models.InnovationArea
	if err := db.Where("name = ?", "AI").First(&area).Error; err != nil {
		t.Fatalf("AI area missing: %v", err)
	}
	var linkCount int64
	db.Model(&models.ExpertArea{}).Where("area_id = ?", area.ID).Count(&linkCount)
	if linkCount != 3 {
		t.Errorf("expected 3 AI links, got %d", linkCount)
	}
}

// Bereiche sind über den Namen idempotent, Experten und Verknüpfungen
// bewusst nicht: ein zweiter Lauf verdoppelt beide.
func TestImporterRerunAsymmetry(t *testing.T) {
	db := setupTestDB(t)
	path := writeTestCSV(t, testCSV)
	importer := NewImporter(db, zap.NewNop())

	if _, err := importer.Run(path); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	second, err := importer.Run(path)
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if second.AreasCreated != 0 {
		t.Errorf("rerun must not create new areas, got %d", second.AreasCreated)
	}

	var areaCount, expertCount, linkCount int64
	db.Model(&models.InnovationArea{}).Count(&areaCount)
	db.Model(&models.Expert{}).Count(&expertCount)
	db.Model(&models.ExpertArea{}).Count(&linkCount)

	if areaCount != 3 {
		t.Errorf("expected 3 areas after rerun, got %d", areaCount)
	}
	if expertCount != 6 {
		t.Errorf("expected duplicated experts (6) after rerun, got %d", expertCount)
	}
	if linkCount != 10 {
		t.Errorf("expected duplicated links (10) after rerun, got %d", linkCount)
	}
}

func TestImporterMissingFile(t *testing.T) {
	db := setupTestDB(t)
	result, err := NewImporter(db, zap.NewNop()).Run(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil {
		t.Fatalf("missing file must not be an error, got %v", err)
	}
	if result.AreasCreated != 0 || result.ExpertsCreated != 0 {
		t.Errorf("missing file must import nothing, got %+v", result)
	}
}

func TestImporterRowWithoutAreas(t *testing.T) {
	db := setupTestDB(t)
	csv := "Category,Name,Institution,Description,Contact,Website,Focus Areas\n" +
		"Startup,Lea Steiner,SoloLab,Consulting,lea@sololab.ch,,\n"
	path := writeTestCSV(t, csv)

	result, err := NewImporter(db, zap.NewNop()).Run(path)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	// Experte ohne erkannte Bereiche wird trotzdem importiert
	if result.ExpertsCreated != 1 || result.LinksCreated != 0 {
		t.Errorf("expected 1 expert and 0 links, got %+v", result)
	}
}

func TestImporterMalformedRowAborts(t *testing.T) {
	db := setupTestDB(t)
	csv := "Category,Name,Institution,Description,Contact,Website,Focus Areas\n" +
		"only,three,fields\n"
	path := writeTestCSV(t, csv)

	if _, err := NewImporter(db, zap.NewNop()).Run(path); err == nil {
		t.Fatal("malformed row must abort the import")
	}
}

func TestImporterMissingColumn(t *testing.T) {
	db := setupTestDB(t)
	csv := "Name,Institution\nAnna,HSG\n"
	path := writeTestCSV(t, csv)

	if _, err := NewImporter(db, zap.NewNop()).Run(path); err == nil {
		t.Fatal("missing required column must abort the import")
	}
}
