package contractgen

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"smart-hire-be/pkg/store"
)

var fixedNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	return New(t.TempDir()).WithClock(func() time.Time { return fixedNow })
}

func testCandidate() store.Candidate {
	return store.Candidate{
		LastName:  "Dupont",
		FirstName: "Jean",
		Email:     "jean.dupont@gmail.com",
		Title:     "Développeur Python",
	}
}

func TestRenderCDI(t *testing.T) {
	g := newTestGenerator(t)
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.Local)

	path, err := g.Render(context.Background(), testCandidate(), "CDI", 45000, start, nil)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "contrat_Dupont_Jean_20260901.pdf" {
		t.Errorf("filename = %q", filepath.Base(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("contract file is empty")
	}
}

func TestRenderCDDWithEndDate(t *testing.T) {
	g := newTestGenerator(t)
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 6, 0)

	path, err := g.Render(context.Background(), testCandidate(), "CDD", 35000, start, &end)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func TestRenderAllContractTypes(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.Local)
	for _, contractType := range []string{"CDI", "CDD", "Stage", "Freelance"} {
		t.Run(contractType, func(t *testing.T) {
			g := newTestGenerator(t)
			if _, err := g.Render(context.Background(), testCandidate(), contractType, 40000, start, nil); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestRenderCancelledContext(t *testing.T) {
	g := newTestGenerator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Render(ctx, testCandidate(), "CDI", 45000, fixedNow, nil); err == nil {
		t.Error("cancelled context should abort the render")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dupont", "Dupont"},
		{"Le Goff", "Le_Goff"},
		{"Jean-Pierre", "Jean_Pierre"},
		{"Née", "Ne"},
		{"", "candidat"},
		{"日本語", "candidat"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMonthlySalary(t *testing.T) {
	if got := monthlySalary(45000); got != "3750.00" {
		t.Errorf("monthlySalary(45000) = %q", got)
	}
}

func TestNewDefaultsOutputDir(t *testing.T) {
	g := New("")
	if g.OutputDir != "data/contracts" {
		t.Errorf("OutputDir = %q", g.OutputDir)
	}
}
