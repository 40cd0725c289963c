package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/waozixyz/esqml/internal/config"
	"github.com/waozixyz/esqml/internal/fontmetrics"
	"github.com/waozixyz/esqml/internal/generate"
	"github.com/waozixyz/esqml/internal/logger"
	"github.com/waozixyz/esqml/internal/output"
	"github.com/waozixyz/esqml/internal/qml"
	"github.com/waozixyz/esqml/internal/schema"
	"github.com/waozixyz/esqml/internal/theme"
)

// buildTheme runs every pass over the theme in inputDir and returns the
// generated files without touching the disk.
func buildTheme(cfg *config.Config, inputDir string) (generate.Files, error) {
	root, err := filepath.Abs(inputDir)
	if err != nil {
		return nil, err
	}
	logger.Info("Converting theme", "input", root, "converter", cfg.GeneratorVersion)

	logger.Info("Pass 1: Loading schema...")
	reg, err := schema.Load()
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	logger.Info("Pass 2: Loading platforms...")
	loader := theme.NewLoader(reg, theme.Options{
		ThemeFile:        cfg.ThemeFile,
		MaxFormatVersion: cfg.MaxFormatVersion,
		MaxIncludeDepth:  cfg.MaxIncludeDepth,
	})
	platforms, err := loader.LoadPlatforms(root)
	if err != nil {
		return nil, err
	}
	logger.Info("   Loaded platforms", "count", len(platforms), "warnings", len(loader.Diagnostics().Warnings))

	logger.Info("Pass 3: Synthesizing default views...")
	defaults, err := theme.DefaultViews(reg, root)
	if err != nil {
		return nil, fmt.Errorf("default views: %w", err)
	}

	logger.Info("Pass 4: Rendering views...")
	fonts := fontmetrics.NewCache(fontmetrics.SFNTMeasurer{
		WindowHeight: cfg.FontWindowHeight,
		SizeMedium:   cfg.FontSizeMedium,
	})
	gen := generate.New(reg, qml.NewRenderer(reg, fonts, root), root)
	files, err := gen.Generate(filepath.Base(root), platforms, defaults)
	if err != nil {
		return nil, err
	}
	logger.Info("   Generated files", "count", len(files))
	return files, nil
}

// runConvert builds the theme and writes it to outputDir. Without an
// output directory it lists what would be written.
func runConvert(cfg *config.Config, inputDir, outputDir string, w io.Writer) error {
	files, err := buildTheme(cfg, inputDir)
	if err != nil {
		return err
	}

	if outputDir == "" {
		for _, p := range files.Paths() {
			fmt.Fprintln(w, p)
		}
		return nil
	}

	logger.Info("Pass 5: Writing files...", "output", outputDir)
	if err := output.Write(files, outputDir, cfg.GeneratorVersion); err != nil {
		return err
	}
	if cfg.ResourcesDir != "" {
		if err := output.CopyTree(cfg.ResourcesDir, filepath.Join(outputDir, output.ResourcesDir)); err != nil {
			return fmt.Errorf("copy resources: %w", err)
		}
	}
	logger.Info("Success.", "files", len(files))
	return nil
}

// runDiff builds the theme and prints how it differs from outputDir. It
// reports whether anything differs.
func runDiff(cfg *config.Config, inputDir, outputDir string, w io.Writer) (bool, error) {
	files, err := buildTheme(cfg, inputDir)
	if err != nil {
		return false, err
	}

	diffs, err := output.Diff(files, outputDir, cfg.GeneratorVersion)
	if err != nil {
		return false, err
	}
	for _, d := range diffs {
		fmt.Fprint(w, d.Format())
	}
	return len(diffs) > 0, nil
}
