package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/aurora-hmis/aurora-hmis/internal/catalog"
)

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestBuildEntriesSkipsZeroQuarters(t *testing.T) {
	src := sourceRow{
		SourceID:          9,
		SourceTable:       SourceExecution,
		FacilityID:        3,
		ReportingPeriodID: 12,
		EventID:           41,
		EventType:         catalog.EventTypeExpense,
		Quarters:          [4]decimal.Decimal{amount(0), amount(100), amount(0), amount(0)},
	}

	entries := buildEntries(src)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Quarter != 2 {
		t.Fatalf("expected quarter 2, got %d", entries[0].Quarter)
	}
	if !entries[0].Amount.Equal(amount(100)) {
		t.Fatalf("unexpected amount: %s", entries[0].Amount)
	}
}

func TestBuildEntriesAllZeroYieldsNothing(t *testing.T) {
	src := sourceRow{EventType: catalog.EventTypeRevenue}
	if entries := buildEntries(src); len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestBuildEntriesDirectionFollowsEventType(t *testing.T) {
	quarters := [4]decimal.Decimal{amount(50), amount(0), amount(0), amount(75)}

	revenue := buildEntries(sourceRow{EventType: catalog.EventTypeRevenue, Quarters: quarters})
	for _, fe := range revenue {
		if fe.Direction != Credit {
			t.Fatalf("revenue event should credit, got %s", fe.Direction)
		}
	}

	for _, et := range []catalog.EventType{catalog.EventTypeExpense, catalog.EventTypeAsset, catalog.EventTypeLiability} {
		entries := buildEntries(sourceRow{EventType: et, Quarters: quarters})
		for _, fe := range entries {
			if fe.Direction != Debit {
				t.Fatalf("%s event should debit, got %s", et, fe.Direction)
			}
		}
	}
}

func TestBuildEntriesCarriesNaturalKeyFields(t *testing.T) {
	projectID := int64(77)
	src := sourceRow{
		SourceID:          15,
		SourceTable:       SourcePlanning,
		FacilityID:        7,
		ReportingPeriodID: 12,
		ProjectID:         &projectID,
		EventID:           41,
		EventType:         catalog.EventTypeExpense,
		Quarters:          [4]decimal.Decimal{amount(10), amount(20), amount(30), amount(40)},
	}

	entries := buildEntries(src)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	for i, fe := range entries {
		if fe.Quarter != i+1 {
			t.Fatalf("expected quarter %d, got %d", i+1, fe.Quarter)
		}
		if fe.SourceID != 15 || fe.SourceTable != SourcePlanning {
			t.Fatalf("source key not carried: %+v", fe)
		}
		if fe.FacilityID != 7 || fe.ReportingPeriodID != 12 || fe.EventID != 41 {
			t.Fatalf("dimension key not carried: %+v", fe)
		}
		if fe.ProjectID == nil || *fe.ProjectID != 77 {
			t.Fatalf("project id not carried: %+v", fe)
		}
	}
}

// Rebuilding twice from the same source must yield the same entries; combined
// with delete-then-insert inside one transaction this is what makes Sync
// idempotent.
func TestBuildEntriesIsDeterministic(t *testing.T) {
	src := sourceRow{
		SourceID:    4,
		SourceTable: SourceExecution,
		EventID:     8,
		EventType:   catalog.EventTypeRevenue,
		Quarters:    [4]decimal.Decimal{amount(100), amount(100), amount(0), amount(0)},
	}

	first := buildEntries(src)
	second := buildEntries(src)
	if len(first) != len(second) {
		t.Fatalf("entry counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Quarter != second[i].Quarter || !first[i].Amount.Equal(second[i].Amount) {
			t.Fatalf("entries differ at %d: %+v vs %+v", i, first[i], second[i])
		}
	}

	// Quarter removal: q2 dropping to zero removes its entry from the rebuild.
	src.Quarters[1] = amount(0)
	third := buildEntries(src)
	if len(third) != 1 || third[0].Quarter != 1 {
		t.Fatalf("expected only q1 to survive, got %+v", third)
	}
}
