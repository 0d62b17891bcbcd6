package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// EcosystemRow ist eine Zeile der Quell-CSV des Innovations-Ökosystems.
type EcosystemRow struct {
	Category    string
	Name        string
	Institution string
	Description string
	Contact     string
	Website     string
	FocusAreas  string
}

// Areas zerlegt die kommaseparierte Fokusbereichs-Liste der Zeile.
func (r EcosystemRow) Areas() []string {
	if strings.TrimSpace(r.FocusAreas) == "" {
		return nil
	}
	parts := strings.Split(r.FocusAreas, ",")
	areas := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			areas = append(areas, name)
		}
	}
	return areas
}

// requiredColumns müssen im CSV-Header vorhanden sein. Contact und Website
// sind optional (leerer String, wenn die Spalte fehlt).
var requiredColumns = []string{"Category", "Name", "Institution", "Description", "Focus Areas"}

// forEachEcosystemRow streamt die CSV-Datei zeilenweise durch fn.
// Fehlerhafte Zeilen (abweichende Spaltenzahl) brechen den gesamten
// Durchlauf ab; es gibt keine zeilenweise Fehlerbehandlung.
func forEachEcosystemRow(path string, fn func(EcosystemRow) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("csv is missing required column %q", col)
		}
	}
	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		row := EcosystemRow{
			Category:    field(record, "Category"),
			Name:        field(record, "Name"),
			Institution: field(record, "Institution"),
			Description: field(record, "Description"),
			Contact:     field(record, "Contact"),
			Website:     field(record, "Website"),
			FocusAreas:  field(record, "Focus Areas"),
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

// LoadEcosystemRows liest die komplette CSV in den Speicher (für den
// KV-Export; der Importer streamt stattdessen zweimal über die Datei).
func LoadEcosystemRows(path string) ([]EcosystemRow, error) {
	var rows []EcosystemRow
	err := forEachEcosystemRow(path, func(row EcosystemRow) error {
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
