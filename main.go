package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-ao-baker/internal/config"
	"github.com/df07/go-ao-baker/internal/logger"
	"github.com/df07/go-ao-baker/pkg/bake"
	"github.com/df07/go-ao-baker/pkg/loaders"
	"github.com/df07/go-ao-baker/pkg/sampling"
)

func main() {
	sceneFile := flag.String("scene", "", "Scene file to sample (.obj or .ply)")
	configFile := flag.String("config", "", "Optional YAML config file")
	numSamples := flag.Int("samples", 0, "Target total sample count (overrides config)")
	minSamples := flag.Int("min-samples", -1, "Minimum samples per triangle (overrides config)")
	workers := flag.Int("workers", -1, "Sampling goroutines, 0 for one per CPU (overrides config)")
	outputFile := flag.String("output", "", "Optional PLY point-cloud dump of the samples (overrides config)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help || *sceneFile == "" {
		fmt.Println("AO surface sampler")
		fmt.Println("Usage: ao-baker -scene <file> [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		if *sceneFile == "" && !*help {
			os.Exit(2)
		}
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// CLI flags take priority over the config file
	if *numSamples > 0 {
		cfg.Sampling.NumSamples = *numSamples
	}
	if *minSamples >= 0 {
		cfg.Sampling.MinSamplesPerTriangle = *minSamples
	}
	if *workers >= 0 {
		cfg.Sampling.Workers = *workers
	}
	if *outputFile != "" {
		cfg.Output.SamplesFile = *outputFile
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *sceneFile); err != nil {
		logger.Log.Error("baking failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, sceneFile string) error {
	mesh, err := loaders.LoadScene(sceneFile)
	if err != nil {
		return err
	}

	// Keep the target above the mandatory per-triangle floor
	target := cfg.Sampling.NumSamples
	if floor := mesh.NumTriangles() * cfg.Sampling.MinSamplesPerTriangle; target < floor {
		logger.Log.Warn("raising sample count to satisfy the per-triangle minimum",
			zap.Int("requested", target), zap.Int("required", floor))
		target = floor
	}

	sampler := sampling.NewSurfaceSampler(sampling.Config{
		MinSamplesPerTriangle: cfg.Sampling.MinSamplesPerTriangle,
		Workers:               cfg.Sampling.Workers,
	})

	samples := bake.NewAOSamples(target)
	startTime := time.Now()
	sampler.SampleSurface(mesh, samples)

	logger.Log.Info("surface sampled",
		zap.Int("samples", samples.NumSamples()),
		zap.Int("triangles", mesh.NumTriangles()),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	if cfg.Output.SamplesFile != "" {
		if err := writeSamplesPLY(cfg.Output.SamplesFile, samples); err != nil {
			return err
		}
		logger.Log.Info("samples written", zap.String("file", cfg.Output.SamplesFile))
	}

	return nil
}

// writeSamplesPLY dumps the generated samples as an ASCII PLY point cloud
// for inspection: position, shading normal and differential area per point.
func writeSamplesPLY(filename string, samples *bake.AOSamples) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create samples file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintln(w, "ply")
	fmt.Fprintln(w, "format ascii 1.0")
	fmt.Fprintf(w, "element vertex %d\n", samples.NumSamples())
	fmt.Fprintln(w, "property float x")
	fmt.Fprintln(w, "property float y")
	fmt.Fprintln(w, "property float z")
	fmt.Fprintln(w, "property float nx")
	fmt.Fprintln(w, "property float ny")
	fmt.Fprintln(w, "property float nz")
	fmt.Fprintln(w, "property float dA")
	fmt.Fprintln(w, "end_header")

	for i := range samples.Infos {
		p := samples.Positions[i]
		n := samples.Normals[i]
		fmt.Fprintf(w, "%g %g %g %g %g %g %g\n", p.X, p.Y, p.Z, n.X, n.Y, n.Z, samples.Infos[i].DA)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write samples file: %w", err)
	}
	return nil
}
