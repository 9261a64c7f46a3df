// Package favicon turns the site's SVG logo into raster favicons, a
// multi-resolution favicon.ico and the PWA web manifest.
package favicon

import (
	"errors"
	"fmt"
	"log"
	"os"

	"twixsite/config"
)

// ErrMissingSource is returned when the source SVG does not exist. Nothing is written.
var ErrMissingSource = errors.New("source SVG not found")

// ConversionError reports a failed raster output
type ConversionError struct {
	File string
	Size int
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("failed to generate %s (%dx%d): %v", e.File, e.Size, e.Size, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// AssemblyError reports a failed icon container
type AssemblyError struct {
	File string
	Err  error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("failed to generate %s: %v", e.File, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }

// Report summarizes a generator run
type Report struct {
	Generated       []string
	Failed          map[string]error
	IconFrames      int
	IconWritten     bool
	ManifestWritten bool
}

// Generator produces the favicon set and manifest for a site root
type Generator struct {
	cfg        *config.Config
	root       string
	rasterizer Rasterizer
	log        *log.Logger
}

// NewGenerator creates a generator writing under root
func NewGenerator(cfg *config.Config, root string, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(os.Stdout, "", 0)
	}

	return &Generator{
		cfg:        cfg,
		root:       root,
		rasterizer: SVGRasterizer{},
		log:        logger,
	}
}

// SetRasterizer replaces the SVG conversion backend
func (g *Generator) SetRasterizer(r Rasterizer) {
	g.rasterizer = r
}

// Run generates every raster size, the icon container and the manifest.
// Only a missing source aborts the run; every other failure is logged,
// recorded in the report and skipped.
func (g *Generator) Run() (*Report, error) {
	source := g.cfg.SourcePath(g.root)
	if _, err := os.Stat(source); err != nil {
		g.log.Printf("❌ SVG file not found: %s", g.cfg.Source)
		return nil, fmt.Errorf("%w: %s", ErrMissingSource, source)
	}

	report := &Report{Failed: make(map[string]error)}

	g.log.Printf("🎨 Generating favicon files...")
	g.rasterizeAll(source, report)
	g.buildIcon(report)
	g.log.Printf("\n✅ Favicon generation complete!")
	g.log.Printf("   Files saved to: %s", g.cfg.OutputDir)

	g.log.Println()
	g.writeManifest(report)

	return report, nil
}

// rasterizeAll converts each configured size in list order
func (g *Generator) rasterizeAll(source string, report *Report) {
	for _, spec := range g.cfg.Sizes {
		if err := g.rasterize(source, spec); err != nil {
			g.log.Printf("   ❌ Failed to generate %s: %v", spec.File, err)
			report.Failed[spec.File] = &ConversionError{File: spec.File, Size: spec.Size, Err: err}
			continue
		}

		g.log.Printf("   ✓ Generated %s (%dx%d)", spec.File, spec.Size, spec.Size)
		report.Generated = append(report.Generated, spec.File)
	}
}

func (g *Generator) rasterize(source string, spec config.SizeSpec) error {
	data, err := g.rasterizer.Rasterize(source, spec.Size)
	if err != nil {
		return err
	}

	return os.WriteFile(g.cfg.OutputPath(g.root, spec.File), data, 0644)
}

// buildIcon packs whichever of the icon sizes exist on disk into the ICO file
func (g *Generator) buildIcon(report *Report) {
	var paths []string
	for _, size := range g.cfg.Icon.Sizes {
		file, ok := g.cfg.SizeFile(size)
		if !ok {
			continue
		}
		paths = append(paths, g.cfg.OutputPath(g.root, file))
	}

	frames, err := LoadFrames(paths)
	if err != nil {
		g.log.Printf("   ❌ Failed to generate %s: %v", g.cfg.Icon.File, err)
		report.Failed[g.cfg.Icon.File] = &AssemblyError{File: g.cfg.Icon.File, Err: err}
		return
	}

	if len(frames) == 0 {
		return
	}

	if err := WriteIcon(g.cfg.OutputPath(g.root, g.cfg.Icon.File), frames); err != nil {
		g.log.Printf("   ❌ Failed to generate %s: %v", g.cfg.Icon.File, err)
		report.Failed[g.cfg.Icon.File] = &AssemblyError{File: g.cfg.Icon.File, Err: err}
		return
	}

	report.IconFrames = len(frames)
	report.IconWritten = true
	g.log.Printf("   ✓ Generated %s", g.cfg.Icon.File)
}

func (g *Generator) writeManifest(report *Report) {
	path := g.cfg.ManifestPath(g.root)

	if err := WriteManifest(path, NewManifest(g.cfg.Manifest)); err != nil {
		g.log.Printf("❌ Failed to create %s: %v", g.cfg.Manifest.Path, err)
		report.Failed[g.cfg.Manifest.Path] = err
		return
	}

	report.ManifestWritten = true
	g.log.Printf("✅ Created %s", g.cfg.Manifest.Path)
}
