package analyze

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joshgregory42/f1-analysis-2021/internal/render"
)

// sink writes rendered laps as minisectors_lap_<lap>.<ext> into outDir.
type sink struct {
	outDir string
	opts   render.Options
}

func (s *sink) filename(lap int) string {
	return filepath.Join(s.outDir, fmt.Sprintf("minisectors_lap_%d.%s", lap, s.opts.Format))
}

func (s *sink) write(scene *render.Scene) (string, error) {
	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return "", err
	}
	fn := s.filename(scene.Lap)
	f, err := os.Create(fn)
	if err != nil {
		return "", err
	}
	if err := render.Render(scene, s.opts, f); err != nil {
		f.Close()
		return "", fmt.Errorf("render lap %d: %w", scene.Lap, err)
	}
	return fn, f.Close()
}
