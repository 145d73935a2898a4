package namematch

import (
	"testing"

	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Santos, Roi", "santos, roi"},
		{"  Santos,   Roi  ", "santos, roi"},
		{"Bañares, Ana", "banares, ana"},
		{"Dela Cruz - Reyes, Maria", "dela cruz-reyes, maria"},
		{"a - b", "a-b"},
		{"", ""},
		{"   ", ""},
		{"O'Neil,\tSean", "o'neil, sean"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Santos, Roi Aldrich",
		"Bañares,  Ana - Marie",
		"  DELA CRUZ ,  JOSÉ  ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestValidFormat(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Santos, Roi", true},
		{"Santos,Roi", true},
		{"Dela Cruz, Maria Elena", true},
		{"O'Neil, Sean", true},
		{"Smith-Jones, Ann", true},
		{"Bañares, José", true},
		{"Santos", false},
		{"Santos,", false},
		{", Roi", false},
		{"Santos, Roi, Jr", false},
		{"Santos, Roi3", false},
		{"Santos; Roi", false},
		{"", false},
		{"   ", false},
		{" - , - ", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ValidFormat(tt.input)
			if got != tt.want {
				t.Errorf("ValidFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "Santos, Roi", "Santos, Roi", true},
		{"partial first name", "Santos, Roi", "Santos, Roi Aldrich", true},
		{"middle name subset", "Santos, Angelie", "Santos, Mary Angelie", true},
		{"accent insensitive", "Bañares, Ana", "Banares, Ana", true},
		{"case insensitive", "SANTOS, ROI", "santos, roi", true},
		{"hyphen spacing", "Dela Cruz - Reyes, Maria", "Dela Cruz-Reyes, Maria", true},
		{"different last name", "Santos, Roi", "Reyes, Roi", false},
		{"unrelated first names", "Santos, Roi", "Santos, Maria", false},
		{"commaless equal", "Roi Santos", "roi santos", true},
		{"commaless unequal", "Roi Santos", "Roi Santos Aldrich", false},
		{"comma vs no comma", "Santos, Roi", "Roi Santos", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.a, tt.b); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Matching is symmetric.
			if got := Match(tt.b, tt.a); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestOnRoster(t *testing.T) {
	roster := []models.Student{
		{Name: "Santos, Roi Aldrich"},
		{Name: "Bañares, Ana"},
		{Name: "Dela Cruz, Maria Elena"},
	}

	tests := []struct {
		name string
		want bool
	}{
		{"Santos, Roi", true},
		{"Banares, Ana", true},
		{"dela cruz, maria", true},
		{"Reyes, Pedro", false},
		{"Santos, Maria", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OnRoster(tt.name, roster); got != tt.want {
				t.Errorf("OnRoster(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestFindMembership(t *testing.T) {
	g1 := models.Group{ID: primitive.NewObjectID(), Name: "Team Alpha", Members: []string{"Santos, Roi Aldrich"}}
	g2 := models.Group{ID: primitive.NewObjectID(), Name: "Team Beta", Members: []string{"Bañares, Ana"}}
	groups := []models.Group{g1, g2}

	got, found := FindMembership("Santos, Roi", groups)
	if !found || got.ID != g1.ID {
		t.Fatalf("FindMembership(Santos, Roi) = (%v, %v), want group %q", got.Name, found, g1.Name)
	}

	got, found = FindMembership("Banares, Ana", groups)
	if !found || got.ID != g2.ID {
		t.Fatalf("FindMembership(Banares, Ana) = (%v, %v), want group %q", got.Name, found, g2.Name)
	}

	if _, found := FindMembership("Reyes, Pedro", groups); found {
		t.Errorf("FindMembership(Reyes, Pedro) found a group, want none")
	}
}
