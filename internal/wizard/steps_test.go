package wizard

import (
	"testing"

	"github.com/rosai-assist/rosai/internal/formstate"
)

func TestNextStepID(t *testing.T) {
	tests := []struct {
		id     StepID
		want   StepID
		wantOK bool
	}{
		{1, 2, true},
		{4, 5, true},
		{7, 8, true},
		{8, 10, true},
		{10, 10, false},
		{9, 9, false},
		{0, 0, false},
	}

	for _, tt := range tests {
		got, ok := NextStepID(tt.id)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NextStepID(%d) = %d, %v; want %d, %v", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPreviousStepID(t *testing.T) {
	tests := []struct {
		id     StepID
		want   StepID
		wantOK bool
	}{
		{2, 1, true},
		{10, 8, true},
		{1, 1, false},
		{9, 9, false},
	}

	for _, tt := range tests {
		got, ok := PreviousStepID(tt.id)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("PreviousStepID(%d) = %d, %v; want %d, %v", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNextThenPrevious_RoundTrips(t *testing.T) {
	for _, s := range StepIDs[:len(StepIDs)-1] {
		next, ok := NextStepID(s)
		if !ok {
			t.Fatalf("NextStepID(%d) not ok", s)
		}
		if prev, _ := PreviousStepID(next); prev != s {
			t.Errorf("PreviousStepID(NextStepID(%d)) = %d, want %d", s, prev, s)
		}
	}
}

func TestProgressStep(t *testing.T) {
	for s := 1; s <= 8; s++ {
		if got := ProgressStep(s); got != s {
			t.Errorf("ProgressStep(%d) = %d, want %d", s, got, s)
		}
	}
	if got := ProgressStep(10); got != 9 {
		t.Errorf("ProgressStep(10) = %d, want 9", got)
	}
	if got := ProgressPercent(10); got != 1 {
		t.Errorf("ProgressPercent(10) = %v, want 1", got)
	}
}

func TestStepDefinitions_MatchStepIDs(t *testing.T) {
	if len(StepDefinitions) != TotalSteps {
		t.Fatalf("len(StepDefinitions) = %d, want %d", len(StepDefinitions), TotalSteps)
	}
	for i, d := range StepDefinitions {
		if d.ID != StepIDs[i] {
			t.Errorf("StepDefinitions[%d].ID = %d, want %d", i, d.ID, StepIDs[i])
		}
	}
	if d, _ := Definition(StepEmployer); d.Role != RoleEmployer {
		t.Errorf("employer step role = %q", d.Role)
	}
	if _, ok := Definition(9); ok {
		t.Error("Definition(9) found a step")
	}
}

func TestIsValidStep_MatchesFormStateDefault(t *testing.T) {
	for id := -2; id <= 12; id++ {
		if got, want := IsValidStep(id), formstate.DefaultValidStep(id); got != want {
			t.Errorf("IsValidStep(%d) = %v, formstate.DefaultValidStep(%d) = %v", id, got, id, want)
		}
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   ActorRole
		wantOK bool
	}{
		{"worker", RoleWorker, true},
		{"employer", RoleEmployer, true},
		{"medical", RoleMedical, true},
		{"insurer", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseRole(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
