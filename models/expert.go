package models

import "time"

// Expert repräsentiert eine Kontaktperson oder Institution mit Wissen
// in einem oder mehreren Innovationsbereichen. Experten haben bewusst
// keinen Dedup-Schlüssel: ein erneuter Import derselben Quelldatei legt
// Duplikate an (dokumentiertes Verhalten der Import-Pipeline).
type Expert struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	Institution string `json:"institution,omitempty"`
	Email       string `json:"email,omitempty"`
	Website     string `json:"website,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (Expert) TableName() string {
	return "experts"
}
