package models

// InnovationArea repräsentiert einen benannten Innovations-Fokusbereich.
// Der Name dient beim Import als natürlicher Schlüssel.
type InnovationArea struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"` // z.B. "Digital Transformation"
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (InnovationArea) TableName() string {
	return "innovation_areas"
}
