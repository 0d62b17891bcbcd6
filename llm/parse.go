package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Fehlerarten beim Auswerten einer Modellantwort. Semantisch getrennt,
// auch wenn die HTTP-Schicht mehrere davon auf denselben Status abbildet.
var (
	// ErrEmptyResponse: Antworttext fehlt oder ist leer.
	ErrEmptyResponse = errors.New("empty model response")
	// ErrMalformedResponse: Antworttext ist kein parsebares JSON.
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrUnexpectedShape: geparster Wert ist kein JSON-Objekt.
	ErrUnexpectedShape = errors.New("unexpected model response shape")
)

// StripFences entfernt Markdown-Code-Fences um eine Modellantwort
// (führende/abschließende ``` sowie ein "json"-Sprachtag).
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// DecodeJSONObject extrahiert das JSON-Objekt aus einer möglicherweise
// gefenceten Modellantwort. Modelle liefern JSON gern in ```json-Blöcken,
// daher ist dieser Schritt tragend für die ganze Ranking-Pipeline.
func DecodeJSONObject(text string) (map[string]any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}
	cleaned := StripFences(text)
	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrUnexpectedShape
	}
	return obj, nil
}

// DecodeJSONInto dekodiert eine gefencete Modellantwort in eine beliebige
// Zielstruktur (z.B. eine Namensliste beim Generieren synthetischer Daten).
func DecodeJSONInto(text string, target any) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(StripFences(text)), target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
