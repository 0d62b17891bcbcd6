package store

import (
	"errors"

	"gorm.io/gorm"

	"expert-hand/models"
)

// ErrDuplicateUsername wird zurückgegeben, wenn der Benutzername bereits
// vergeben ist. Der Unique-Index der Datenbank ist das eigentliche
// Sicherheitsnetz gegen Races; der Vorab-Check liefert nur die saubere
// Fehlermeldung.
var ErrDuplicateUsername = errors.New("username already registered")

// Store bündelt die Repository-Funktionen über die drei Relationen
// (Bereiche, Experten, Verknüpfungen) plus die User-Tabelle.
// Keine Transaktionen über mehrere Aufrufe hinweg; jeder Aufruf
// committet für sich (GORM-Default).
type Store struct {
	db *gorm.DB
}

// New erstellt einen Store über der gegebenen Verbindung. Die Import-Pipeline
// übergibt hier auch Transaktions-Handles für ihre Batch-Commits.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ListAreas gibt alle Innovationsbereiche zurück.
func (s *Store) ListAreas() ([]models.InnovationArea, error) {
	var areas []models.InnovationArea
	if err := s.db.Find(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

// ListExperts gibt alle Experten zurück.
func (s *Store) ListExperts() ([]models.Expert, error) {
	var experts []models.Expert
	if err := s.db.Find(&experts).Error; err != nil {
		return nil, err
	}
	return experts, nil
}

// ExpertsForArea gibt die Experten eines Bereichs in Verknüpfungsreihenfolge
// zurück (keine explizite Sortierung). Verknüpfungen auf fehlende
// Expertenzeilen werden stillschweigend übersprungen.
func (s *Store) ExpertsForArea(areaID uint) ([]models.Expert, error) {
	var links []models.ExpertArea
	if err := s.db.Where("area_id = ?", areaID).Find(&links).Error; err != nil {
		return nil, err
	}
	experts := make([]models.Expert, 0, len(links))
	for _, link := range links {
		expert, err := s.ExpertByID(link.ExpertID)
		if err != nil {
			return nil, err
		}
		if expert == nil {
			continue
		}
		experts = append(experts, *expert)
	}
	return experts, nil
}

// AreaByName sucht einen Bereich über seinen Namen. nil, wenn nicht vorhanden.
func (s *Store) AreaByName(name string) (*models.InnovationArea, error) {
	var area models.InnovationArea
	if err := s.db.Where("name = ?", name).First(&area).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &area, nil
}

// ExpertByID sucht einen Experten über seine ID. nil, wenn nicht vorhanden.
func (s *Store) ExpertByID(id uint) (*models.Expert, error) {
	var expert models.Expert
	if err := s.db.First(&expert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expert, nil
}

// UserByUsername sucht einen User über den Benutzernamen. nil, wenn nicht vorhanden.
func (s *Store) UserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser legt einen neuen User an. ErrDuplicateUsername, wenn der
// Benutzername bereits existiert; in dem Fall wird keine Zeile angelegt.
func (s *Store) CreateUser(user *models.User) error {
	existing, err := s.UserByUsername(user.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateUsername
	}
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

// CreateArea legt einen Bereich an (nur Import-Pfad).
func (s *Store) CreateArea(area *models.InnovationArea) error {
	return s.db.Create(area).Error
}

// CreateExpert legt einen Experten an und füllt dessen ID (nur Import-Pfad).
func (s *Store) CreateExpert(expert *models.Expert) error {
	return s.db.Create(expert).Error
}

// LinkExpertArea verknüpft Experte und Bereich. Nicht gegen doppelte
// Verknüpfungen abgesichert (nur Import-Pfad).
func (s *Store) LinkExpertArea(expertID, areaID uint) error {
	return s.db.Create(&models.ExpertArea{ExpertID: expertID, AreaID: areaID}).Error
}
