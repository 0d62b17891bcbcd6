package services

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"expert-hand/store"
)

func TestFillCoverageGaps(t *testing.T) {
	st := store.New(setupTestDB(t))
	covered := seedArea(t, st, "AI", 3)
	thin := seedArea(t, st, "Biotech", 1)

	fake := &fakeLLM{reply: `[
		{"first_name": "Anna", "last_name": "Keller"},
		{"first_name": "Marco", "last_name": "Bernasconi"},
		{"first_name": "Lea", "last_name": "Steiner"}
	]`}

	created, err := NewSynthesizer(st, fake, zap.NewNop(), 3).FillCoverageGaps(context.Background())
	if err != nil {
		t.Fatalf("FillCoverageGaps failed: %v", err)
	}
	if created != 2 {
		t.Fatalf("expected 2 synthetic experts, got %d", created)
	}

	thinExperts, err := st.ExpertsForArea(thin.ID)
	if err != nil {
		t.Fatalf("ExpertsForArea failed: %v", err)
	}
	if len(thinExperts) != 3 {
		t.Errorf("Biotech must reach the floor of 3, got %d", len(thinExperts))
	}
	if thinExperts[1].Name != "Anna Keller" {
		t.Errorf("expected first synthetic expert 'Anna Keller', got %q", thinExperts[1].Name)
	}
	// Institution kommt vom bereits verknüpften Experten, E-Mail und Website
	// leiten sich aus deren Namen ab
	if thinExperts[1].Institution != "Test Institute" {
		t.Errorf("expected institution of the existing expert, got %q", thinExperts[1].Institution)
	}
	if thinExperts[1].Email != "anna.keller@testinst.ch" {
		t.Errorf("unexpected synthetic email: %q", thinExperts[1].Email)
	}
	if thinExperts[1].Website != "https://www.testinst.ch" {
		t.Errorf("unexpected synthetic website: %q", thinExperts[1].Website)
	}

	coveredExperts, err := st.ExpertsForArea(covered.ID)
	if err != nil {
		t.Fatalf("ExpertsForArea failed: %v", err)
	}
	if len(coveredExperts) != 3 {
		t.Errorf("covered area must stay untouched, got %d experts", len(coveredExperts))
	}
}

func TestFillCoverageGapsNothingToDo(t *testing.T) {
	st := store.New(setupTestDB(t))
	seedArea(t, st, "AI", 3)

	fake := &fakeLLM{reply: `[]`}
	created, err := NewSynthesizer(st, fake, zap.NewNop(), 3).FillCoverageGaps(context.Background())
	if err != nil {
		t.Fatalf("FillCoverageGaps failed: %v", err)
	}
	if created != 0 {
		t.Errorf("expected no synthetic experts, got %d", created)
	}
	if fake.calls != 0 {
		t.Errorf("no gaps means no model call, got %d calls", fake.calls)
	}
}

func TestFillCoverageGapsNameBankExhausted(t *testing.T) {
	st := store.New(setupTestDB(t))
	seedArea(t, st, "Biotech", 0)

	fake := &fakeLLM{reply: `[{"first_name": "Anna", "last_name": "Keller"}]`}
	created, err := NewSynthesizer(st, fake, zap.NewNop(), 3).FillCoverageGaps(context.Background())
	if err != nil {
		t.Fatalf("FillCoverageGaps failed: %v", err)
	}
	// Namensbank reicht nur für einen Experten
	if created != 1 {
		t.Errorf("expected 1 synthetic expert, got %d", created)
	}

	// Leerer Bereich: Institutsname wird aus dem Bereichsnamen gebildet
	experts, err := st.ListExperts()
	if err != nil {
		t.Fatalf("ListExperts failed: %v", err)
	}
	if len(experts) != 1 || experts[0].Institution != "Center for Biotech Research St.Gallen" {
		t.Errorf("unexpected synthetic institution: %+v", experts)
	}
}

func TestInstitutionDomain(t *testing.T) {
	cases := []struct {
		institution string
		want        string
	}{
		{"University of St.Gallen (HSG)", "unisg.ch"},
		{"Kantonsspital St.Gallen", "kssg.ch"},
		{"Empa Materials Science", "empa.ch"},
		{"Test Institute", "testinst.ch"},
		{"Innovationszentrum Ostschweiz", "innovationszentrum.ch"},
		{"SG Tech Hub", "sth.ch"},
	}
	for _, c := range cases {
		if got := institutionDomain(c.institution); got != c.want {
			t.Errorf("institutionDomain(%q) = %q, want %q", c.institution, got, c.want)
		}
	}
}

func TestFillCoverageGapsMalformedNameBank(t *testing.T) {
	st := store.New(setupTestDB(t))
	seedArea(t, st, "Biotech", 1)

	fake := &fakeLLM{reply: "not json"}
	if _, err := NewSynthesizer(st, fake, zap.NewNop(), 3).FillCoverageGaps(context.Background()); err == nil {
		t.Fatal("malformed name bank must fail the run")
	}
	experts, err := st.ListExperts()
	if err != nil {
		t.Fatalf("ListExperts failed: %v", err)
	}
	// eine fehlgeschlagene Namensbank darf keine halben Experten hinterlassen
	if len(experts) != 1 {
		t.Errorf("expected only the seeded expert, got %d", len(experts))
	}
}
