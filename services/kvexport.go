package services

import (
	"encoding/json"
	"strconv"
)

// KVContact ist das Kontaktprofil im Key-Value-Export.
type KVContact struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Institution string `json:"institution"`
	Category    string `json:"category"`
	Email       string `json:"email"`
	Website     string `json:"website"`
}

// KVAreaContacts listet die Kontakt-IDs eines Bereichs im Key-Value-Export.
type KVAreaContacts struct {
	ContactIDs []string `json:"contactIds"`
}

// KVSnapshot enthält die beiden Keyspaces des Exports: Bereichsname ->
// Kontakt-ID-Liste und Kontakt-ID -> Profil. Die Werte sind bereits
// serialisiertes JSON, so wie der Store sie erwartet.
type KVSnapshot struct {
	Areas    map[string]string
	Contacts map[string]string
}

// BuildKVSnapshot leitet die beiden Keyspaces aus den CSV-Zeilen ab.
// Kontakt-IDs sind der 1-basierte Zeilenindex als String.
func BuildKVSnapshot(rows []EcosystemRow) (*KVSnapshot, error) {
	areaContacts := make(map[string]*KVAreaContacts)
	snapshot := &KVSnapshot{
		Areas:    make(map[string]string),
		Contacts: make(map[string]string, len(rows)),
	}

	for i, row := range rows {
		contactID := strconv.Itoa(i + 1)

		for _, area := range row.Areas() {
			entry, ok := areaContacts[area]
			if !ok {
				entry = &KVAreaContacts{}
				areaContacts[area] = entry
			}
			entry.ContactIDs = append(entry.ContactIDs, contactID)
		}

		contact := KVContact{
			Name:        row.Name,
			Description: row.Description,
			Institution: row.Institution,
			Category:    row.Category,
			Email:       row.Contact,
			Website:     row.Website,
		}
		value, err := json.Marshal(contact)
		if err != nil {
			return nil, err
		}
		snapshot.Contacts[contactID] = string(value)
	}

	for area, entry := range areaContacts {
		value, err := json.Marshal(entry)
		if err != nil {
			return nil, err
		}
		snapshot.Areas[area] = string(value)
	}
	return snapshot, nil
}
