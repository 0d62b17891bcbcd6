package models

import "time"

// User repräsentiert einen registrierten Firmenvertreter (nur für Auth und Profil).
type User struct {
	ID        uint      `json:"user_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username     string `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"` // bcrypt, geht nie über die API raus

	// Profilfelder aus der Registrierung
	Email         string `json:"email,omitempty"`
	Company       string `json:"company,omitempty"`
	Role          string `json:"role,omitempty"`
	CompanySector string `json:"company_sector,omitempty"`
	Problem       string `json:"problem,omitempty" gorm:"type:text"`
	Profile       string `json:"profile,omitempty" gorm:"type:text"`
}

// TableName gibt explizit den Tabellennamen an.
func (User) TableName() string {
	return "users"
}
