package rules

import "testing"

func TestConfigForDataDefaults(t *testing.T) {
	tests := []struct {
		name string
		data map[string]interface{}
	}{
		{name: "nil data"},
		{name: "empty data", data: map[string]interface{}{}},
		{name: "core profile", data: map[string]interface{}{"rulesProfile": "Core"}},
		{name: "unknown profile", data: map[string]interface{}{"rulesProfile": "Homebrew"}},
		{name: "non-string profile", data: map[string]interface{}{"rulesProfile": 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfigForData(tt.data)
			if got != DefaultConfig() {
				t.Fatalf("expected defaults, got %+v", got)
			}
		})
	}
}

func TestConfigForDataQuickstart(t *testing.T) {
	got := ConfigForData(map[string]interface{}{"rulesProfile": "Quickstart"})
	want := Config{DifficultyDowngrades: true, FalloutCheckOnStress: false, ClearStressOnFallout: false}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestConfigForDataCustomOverridesPerKey(t *testing.T) {
	got := ConfigForData(map[string]interface{}{
		"rulesProfile": "Custom",
		"customRules": map[string]interface{}{
			"falloutCheckOnStress": false,
		},
	})
	want := Config{DifficultyDowngrades: true, FalloutCheckOnStress: false, ClearStressOnFallout: true}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestConfigForDataCustomWithoutOverrides(t *testing.T) {
	got := ConfigForData(map[string]interface{}{"rulesProfile": "Custom"})
	if got != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func filled(n int) []bool {
	boxes := make([]bool, n)
	for i := range boxes {
		boxes[i] = true
	}
	return boxes
}

func TestTotalForFalloutCapsPerTrack(t *testing.T) {
	stress := Stress{
		"blood": filled(12), // contributes 10, not 12
		"mind":  {true, false, true},
	}
	if got := TotalForFallout(stress); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}

func TestTotalForFalloutIgnoresUnknownTracks(t *testing.T) {
	stress := Stress{
		"shadow":  filled(2),
		"stamina": filled(9), // not a stress track
	}
	if got := TotalForFallout(stress); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestTotalForFalloutCountsOnlyFilledBoxes(t *testing.T) {
	stress := Stress{
		"blood":      {true, false, false, true},
		"mind":       {false, false},
		"silver":     {true},
		"shadow":     nil,
		"reputation": {true, true},
	}
	if got := TotalForFallout(stress); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestSeverityForTotal(t *testing.T) {
	tests := []struct {
		total int
		want  Severity
	}{
		{0, SeverityMinor},
		{4, SeverityMinor},
		{5, SeverityModerate},
		{8, SeverityModerate},
		{9, SeveritySevere},
		{42, SeveritySevere},
	}
	for _, tt := range tests {
		if got := SeverityForTotal(tt.total); got != tt.want {
			t.Fatalf("SeverityForTotal(%d) = %q, want %q", tt.total, got, tt.want)
		}
	}
}

func TestClearAmountForSeverity(t *testing.T) {
	tests := []struct {
		severity Severity
		want     int
	}{
		{SeveritySevere, 7},
		{SeverityModerate, 5},
		{SeverityMinor, 3},
		{Severity("anything else"), 3},
	}
	for _, tt := range tests {
		if got := ClearAmountForSeverity(tt.severity); got != tt.want {
			t.Fatalf("ClearAmountForSeverity(%q) = %d, want %d", tt.severity, got, tt.want)
		}
	}
}
