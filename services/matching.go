package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"expert-hand/llm"
	"expert-hand/store"
)

// Limits der Ranking-Pipeline: maximal drei Bereiche, maximal drei
// Kontakte pro Bereich.
const (
	maxRankedAreas  = 3
	maxContactsEach = 3
)

// Contact ist das API-Bild eines Experten innerhalb eines Rankings.
type Contact struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Institution string `json:"institution"`
	Email       string `json:"email,omitempty"`
	Website     string `json:"website,omitempty"`
}

// RankedArea ist ein Bereich mit Fit-Score und seinen Kontakten.
type RankedArea struct {
	Name     string    `json:"name"`
	Rating   float64   `json:"rating"`
	Contacts []Contact `json:"contacts"`
}

// AreaMatch ist ein Eintrag der Ranking-Antwort.
type AreaMatch struct {
	Area RankedArea `json:"area"`
}

// MatchingService berechnet das Bereichs-Ranking für ein Rollen-/Problempaar.
type MatchingService struct {
	Store      *store.Store
	LLM        llm.Client
	Logger     *zap.Logger
	MinExperts int // Coverage-Floor: Bereiche mit weniger Experten fliegen raus
}

// NewMatchingService erstellt eine neue Instanz des MatchingService.
func NewMatchingService(st *store.Store, client llm.Client, logger *zap.Logger, minExperts int) *MatchingService {
	return &MatchingService{
		Store:      st,
		LLM:        client,
		Logger:     logger,
		MinExperts: minExperts,
	}
}

const matchingSystemPrompt = `You are a helpful assistant which guides users through an innovation process. Your users are managing directors of companies who look into how to innovate their business. In a first stage, we try to find the best innovation focus area for the company based on the sector they work in and the problems they face. Based on the following focus areas, output an 'areas' object that is a mapping from the area name to a percentage (0-100) representing how well it fits the current situation. The focus areas are: %s. Return only this json object, no additional text.`

const matchingUserPrompt = `Calculate the fit of the areas for the following person. The person has the following role %s and has the problem: "%s".`

// RankAreas fragt das Modell nach einem Fit-Score-Mapping über alle bekannten
// Bereiche, filtert auf Bereiche mit ausreichender Expertenabdeckung und gibt
// die besten Bereiche mit jeweils bis zu drei Kontakten zurück.
//
// Rollen- und Problemtext gehen wörtlich ins User-Prompt (keine Sanitisierung,
// siehe llm.Client). Ties im Score werden deterministisch über die Bereichs-ID
// aufsteigend aufgelöst.
func (m *MatchingService) RankAreas(ctx context.Context, role, problem string) ([]AreaMatch, error) {
	areas, err := m.Store.ListAreas()
	if err != nil {
		return nil, err
	}

	areaNames := make([]string, 0, len(areas))
	areaByName := make(map[string]uint, len(areas))
	for _, a := range areas {
		areaNames = append(areaNames, a.Name)
		areaByName[a.Name] = a.ID
	}

	system := fmt.Sprintf(matchingSystemPrompt, strings.Join(areaNames, ", "))
	user := fmt.Sprintf(matchingUserPrompt, role, problem)

	raw, err := m.LLM.Complete(ctx, system, []llm.Message{{Role: "user", Content: user}})
	if err != nil {
		return nil, err
	}

	mapping, err := llm.DecodeJSONObject(raw)
	if err != nil {
		m.Logger.Warn("Model returned unusable area mapping", zap.Error(err))
		return nil, err
	}

	// Halluzinierte Bereichsnamen rausfiltern, nicht-numerische Scores ignorieren
	type candidate struct {
		name  string
		score float64
		id    uint
	}
	candidates := make([]candidate, 0, len(mapping))
	for name, value := range mapping {
		id, known := areaByName[name]
		if !known {
			m.Logger.Debug("Dropping unknown area from model response", zap.String("area", name))
			continue
		}
		score, ok := value.(float64)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{name: name, score: score, id: id})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id < candidates[j].id
	})

	response := make([]AreaMatch, 0, maxRankedAreas)
	for _, cand := range candidates {
		if len(response) >= maxRankedAreas {
			break
		}

		experts, err := m.Store.ExpertsForArea(cand.id)
		if err != nil {
			return nil, err
		}
		// Coverage-Floor: zu dünn besetzte Bereiche komplett überspringen,
		// egal wie gut das Modell sie bewertet hat
		if len(experts) < m.MinExperts {
			m.Logger.Debug("Skipping area below coverage floor",
				zap.String("area", cand.name), zap.Int("experts", len(experts)))
			continue
		}

		contacts := make([]Contact, 0, maxContactsEach)
		for _, expert := range experts {
			if len(contacts) >= maxContactsEach {
				break
			}
			contacts = append(contacts, Contact{
				Name:        expert.Name,
				Description: expert.Description,
				Institution: expert.Institution,
				Email:       expert.Email,
				Website:     expert.Website,
			})
		}

		response = append(response, AreaMatch{Area: RankedArea{
			Name:     cand.name,
			Rating:   cand.score,
			Contacts: contacts,
		}})
	}

	m.Logger.Info("Area ranking completed",
		zap.Int("known_areas", len(areas)),
		zap.Int("rated_areas", len(candidates)),
		zap.Int("returned", len(response)))
	return response, nil
}
