package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LabelsFileName is the annotation file every usable game directory carries
const LabelsFileName = "Labels-v2.json"

// Game is one discovered match directory
type Game struct {
	Dir        string
	Name       string
	LabelsPath string
}

// DiscoverGames finds game directories under dataDir: any directory holding
// a Labels-v2.json next to at least one "<period>_224p.<container>" video.
// A shallow glob is tried first, then a full walk for nested layouts.
// limit > 0 caps the number of games returned.
func DiscoverGames(dataDir, container string, limit int) ([]Game, error) {
	if _, err := os.Stat(dataDir); err != nil {
		return nil, fmt.Errorf("data directory %s: %w", dataDir, err)
	}

	var games []Game
	seen := make(map[string]struct{})

	addGame := func(dir string) {
		if _, dup := seen[dir]; dup {
			return
		}
		if !hasPeriodVideo(dir, container) {
			return
		}
		seen[dir] = struct{}{}
		games = append(games, Game{
			Dir:        dir,
			Name:       filepath.Base(dir),
			LabelsPath: filepath.Join(dir, LabelsFileName),
		})
	}

	matches, err := filepath.Glob(filepath.Join(dataDir, "*", LabelsFileName))
	if err == nil {
		for _, m := range matches {
			addGame(filepath.Dir(m))
		}
	}

	if len(games) == 0 {
		walkErr := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if _, err := os.Stat(filepath.Join(path, LabelsFileName)); err == nil {
				addGame(path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", dataDir, walkErr)
		}
	}

	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}

	return games, nil
}

func hasPeriodVideo(dir, container string) bool {
	for period := 1; period <= 2; period++ {
		if _, err := os.Stat(filepath.Join(dir, PeriodVideoName(period, container))); err == nil {
			return true
		}
	}
	return false
}

// PeriodVideoName is the dataset naming convention for period videos
func PeriodVideoName(period int, container string) string {
	return fmt.Sprintf("%d_224p.%s", period, container)
}
