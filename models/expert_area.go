package models

// ExpertArea verknüpft Experten und Innovationsbereiche (n:m).
// Zusammengesetzter Primärschlüssel, keine eigene ID.
type ExpertArea struct {
	ExpertID uint `json:"expert_id" gorm:"primaryKey;autoIncrement:false"`
	AreaID   uint `json:"area_id" gorm:"primaryKey;autoIncrement:false"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (ExpertArea) TableName() string {
	return "expert_areas"
}
