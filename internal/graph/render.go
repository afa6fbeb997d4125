package graph

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
)

// Render runs each available layout engine on an emitted .gv file and
// writes an SVG next to it. A missing engine or a failed render is a
// warning only; the .gv file is the contract, the SVG a convenience.
// Returns the paths of the SVGs actually produced.
func Render(gvPath string, engines []string, logger *slog.Logger) []string {
	log := logger.With("component", "graph_renderer")
	dir := filepath.Dir(gvPath)

	var rendered []string
	for _, engine := range engines {
		if engine == "" {
			continue
		}
		bin, err := exec.LookPath(engine)
		if err != nil {
			log.Warn("layout engine not installed", "engine", engine)
			continue
		}

		svgPath := filepath.Join(dir, fmt.Sprintf("%cgraph.svg", engine[0]))
		cmd := exec.Command(bin, "-Tsvg", gvPath, "-o", svgPath)
		if out, err := cmd.CombinedOutput(); err != nil {
			log.Warn("render failed", "engine", engine, "error", err, "output", string(out))
			continue
		}

		log.Info("graph rendered", "engine", engine, "path", svgPath)
		rendered = append(rendered, svgPath)
	}
	return rendered
}
