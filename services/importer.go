package services

import (
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"expert-hand/models"
	"expert-hand/store"
)

// Importer liest die Ökosystem-CSV in zwei Durchläufen in die Datenbank ein.
//
// Durchlauf 1 legt alle noch unbekannten Bereiche an (Dedup über den Namen),
// Durchlauf 2 legt Experten an und verknüpft sie mit ihren Bereichen.
// Bereiche sind damit idempotent, Experten und Verknüpfungen NICHT:
// ein erneuter Lauf über dieselbe Datei dupliziert Experten- und Link-Zeilen.
// Jeder Durchlauf committet als ein Batch.
type Importer struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewImporter erstellt eine neue Instanz des Importers.
func NewImporter(db *gorm.DB, logger *zap.Logger) *Importer {
	return &Importer{DB: db, Logger: logger}
}

// ImportResult fasst einen Importlauf zusammen.
type ImportResult struct {
	AreasCreated   int
	ExpertsCreated int
	LinksCreated   int
}

// Run führt den Import aus. Eine fehlende Quelldatei wird geloggt und ist
// kein Fehler; fehlerhafte Zeilen brechen den Lauf dagegen komplett ab.
func (imp *Importer) Run(csvPath string) (*ImportResult, error) {
	if _, err := os.Stat(csvPath); os.IsNotExist(err) {
		imp.Logger.Warn("Import source file not found, nothing to do", zap.String("path", csvPath))
		return &ImportResult{}, nil
	}

	result := &ImportResult{}
	areaIDs := make(map[string]uint) // Name -> ID, über beide Durchläufe

	// Durchlauf 1: alle Bereiche anlegen
	err := imp.DB.Transaction(func(tx *gorm.DB) error {
		st := store.New(tx)
		return forEachEcosystemRow(csvPath, func(row EcosystemRow) error {
			for _, name := range row.Areas() {
				if _, seen := areaIDs[name]; seen {
					continue
				}
				existing, err := st.AreaByName(name)
				if err != nil {
					return err
				}
				if existing != nil {
					areaIDs[name] = existing.ID
					continue
				}
				area := models.InnovationArea{Name: name}
				if err := st.CreateArea(&area); err != nil {
					return err
				}
				areaIDs[name] = area.ID
				result.AreasCreated++
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// Durchlauf 2: Experten anlegen und verknüpfen
	err = imp.DB.Transaction(func(tx *gorm.DB) error {
		st := store.New(tx)
		return forEachEcosystemRow(csvPath, func(row EcosystemRow) error {
			expert := models.Expert{
				Name:        row.Name,
				Description: row.Description,
				Institution: row.Institution,
				Email:       row.Contact,
				Website:     row.Website,
			}
			if err := st.CreateExpert(&expert); err != nil {
				return err
			}
			result.ExpertsCreated++

			// Unbekannte Bereichsnamen liefern keine Verknüpfung; der
			// Experte wird trotzdem importiert
			for _, name := range row.Areas() {
				areaID, known := areaIDs[name]
				if !known {
					continue
				}
				if err := st.LinkExpertArea(expert.ID, areaID); err != nil {
					return err
				}
				result.LinksCreated++
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	imp.Logger.Info("Import completed",
		zap.String("path", csvPath),
		zap.Int("areas_created", result.AreasCreated),
		zap.Int("experts_created", result.ExpertsCreated),
		zap.Int("links_created", result.LinksCreated))
	return result, nil
}
