package catalog

import (
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	item, err := New("java-8", "Multi-choice test of Java 8 knowledge", Attributes{
		Name:          "Java 8 (New)",
		URL:           "https://example.com/java-8",
		TestTypes:     []string{"Knowledge & Skills"},
		Duration:      18,
		RemoteSupport: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID() != "java-8" {
		t.Errorf("ID() = %q", item.ID())
	}
	if item.Name() != "Java 8 (New)" {
		t.Errorf("Name() = %q", item.Name())
	}
	if item.Duration() != 18 {
		t.Errorf("Duration() = %d", item.Duration())
	}
	if !item.RemoteSupport() || item.AdaptiveIRT() {
		t.Errorf("flags = remote:%v adaptive:%v", item.RemoteSupport(), item.AdaptiveIRT())
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		id   string
		dur  int
	}{
		{"empty id", "", 0},
		{"blank id", "   ", 0},
		{"long id", strings.Repeat("a", MaxIDLength+1), 0},
		{"negative duration", "x", -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.id, "text", Attributes{Duration: tc.dur}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNew_EmptyDescriptionAllowed(t *testing.T) {
	item, err := New("blank", "", Attributes{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Text() != "" {
		t.Errorf("Text() = %q, want empty", item.Text())
	}
}

func TestNew_ClonesTestTypes(t *testing.T) {
	types := []string{"Ability & Aptitude"}
	item, _ := New("a", "d", Attributes{TestTypes: types})

	types[0] = "mutated"
	if item.TestTypes()[0] != "Ability & Aptitude" {
		t.Error("input slice mutation leaked into item")
	}

	got := item.TestTypes()
	got[0] = "mutated"
	if item.TestTypes()[0] != "Ability & Aptitude" {
		t.Error("accessor returned internal slice")
	}
}

func TestText_CombinesFields(t *testing.T) {
	item, _ := New("a", "Excel skills assessment", Attributes{
		Name:      "MS Excel",
		TestTypes: []string{"Simulations", "Knowledge"},
	})
	want := "MS Excel Excel skills assessment Simulations Knowledge"
	if item.Text() != want {
		t.Errorf("Text() = %q, want %q", item.Text(), want)
	}
}
