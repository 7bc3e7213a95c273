package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGameDir(t *testing.T, root, name string, periods ...int) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, LabelsFileName), []byte(`{"annotations":[]}`), 0644); err != nil {
		t.Fatal(err)
	}
	for _, p := range periods {
		if err := os.WriteFile(filepath.Join(dir, PeriodVideoName(p, "mkv")), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestDiscoverGames(t *testing.T) {
	root := t.TempDir()
	writeGameDir(t, root, "match_a", 1, 2)
	writeGameDir(t, root, "match_b", 2)
	writeGameDir(t, root, "labels_only") // no videos: not a game

	games, err := DiscoverGames(root, "mkv", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	for _, g := range games {
		if g.Name == "labels_only" {
			t.Error("directory without period videos must not be discovered")
		}
		if g.LabelsPath != filepath.Join(g.Dir, LabelsFileName) {
			t.Errorf("wrong labels path: %s", g.LabelsPath)
		}
	}
}

func TestDiscoverGamesNestedLayout(t *testing.T) {
	// league/season/game nesting defeats the shallow glob; the walk
	// fallback must still find the game
	root := t.TempDir()
	writeGameDir(t, filepath.Join(root, "england_epl", "2015-2016"), "match_c", 1)

	games, err := DiscoverGames(root, "mkv", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 1 || games[0].Name != "match_c" {
		t.Fatalf("expected nested match_c, got %+v", games)
	}
}

func TestDiscoverGamesLimit(t *testing.T) {
	root := t.TempDir()
	writeGameDir(t, root, "match_a", 1)
	writeGameDir(t, root, "match_b", 1)
	writeGameDir(t, root, "match_c", 1)

	games, err := DiscoverGames(root, "mkv", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(games))
	}
}

func TestDiscoverGamesMissingDataDir(t *testing.T) {
	if _, err := DiscoverGames(filepath.Join(t.TempDir(), "absent"), "mkv", 0); err == nil {
		t.Fatal("expected error for missing data dir")
	}
}
