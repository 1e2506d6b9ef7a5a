// Command svodemo builds a voxel scene into a sparse voxel octree, uploads
// it to a GPU device and writes a cross-section preview.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/svo"
	"github.com/gogpu/svo/gpu"
	"github.com/gogpu/svo/internal/config"
	"github.com/gogpu/svo/internal/preview"
	"github.com/gogpu/svo/scene"
)

func main() {
	var (
		configPath = flag.String("config", "svodemo.yaml", "config file")
		output     = flag.String("preview", "", "preview PNG path (overrides config)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	svo.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *output); err != nil {
		logger.Error("svodemo failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, output string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if output != "" {
		cfg.Preview.Output = output
	}

	tree := svo.New()
	if err := buildScene(tree, cfg.Scene); err != nil {
		return err
	}
	st := tree.Stats()
	logger.Info("octree built",
		"nodes", st.Nodes, "empty", st.Empty, "subdivided", st.Subdivided,
		"full", st.Full, "light", st.Light, "lights", st.Lights,
		"bytes", gpu.NodeBufferSize(st.Nodes))

	world := svo.CollectWorld()
	logger.Debug("world collected", "chunks", len(world.Chunks))

	session := svo.NewSession(tree, svo.NewUniform(cfg.FieldOfView, cfg.MaxRayLength))
	session.SetCamera([3]uint32{150, 150, 110}, [2]uint32{0, 0})
	if err := upload(logger, session, cfg.GPU); err != nil {
		return err
	}

	if cfg.Preview.Output == "" {
		return nil
	}
	return writePreview(ctx, logger, tree, cfg.Preview)
}

func buildScene(tree *svo.Octree, path string) error {
	if path == "" {
		scene.Room(tree)
		return nil
	}
	d, err := scene.Load(path)
	if err != nil {
		return err
	}
	_, err = d.Apply(tree)
	return err
}

func upload(logger *slog.Logger, session *svo.Session, cfg config.GPUConfig) error {
	dev, err := openDevice(cfg.Backend)
	if err != nil {
		return err
	}
	defer dev.Close()

	up := gpu.NewUploader(dev.Device, dev.Queue)
	defer up.Close()
	if err := up.Upload(session); err != nil {
		return err
	}
	frame := session.NextFrame()
	_, size := up.NodeBuffer()
	logger.Info("uploaded", "backend", cfg.Backend, "frame", frame, "node_buffer", size)

	if !cfg.Probe {
		return nil
	}
	probe, err := gpu.NewProbePipeline(dev.Device, dev.Queue)
	if err != nil {
		return err
	}
	defer probe.Close()

	points := []svo.Vec4{
		svo.V4(110, 100, 110, 0),
		svo.V4(150, 110, 150, 0),
		svo.V4(150, 180, 150, 0),
		svo.V4(150, 150, 150, 0),
	}
	results, err := probe.Run(up, points)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	if !dev.Executes {
		logger.Info("probe dispatched; backend does not execute shaders, skipping comparison",
			"points", len(results))
		return nil
	}
	mismatches := compareProbe(logger, session.Tree(), points, results)
	logger.Info("probe compared", "points", len(points), "mismatches", mismatches)
	return nil
}

// compareProbe checks GPU probe results against CPU queries and returns
// the number of points where they disagree.
func compareProbe(logger *slog.Logger, tree *svo.Octree, points []svo.Vec4, results []gpu.ProbeResult) int {
	mismatches := 0
	for i, p := range points {
		want := gpu.ResultFromCursor(tree, tree.NodeAtPos(p))
		if i >= len(results) || results[i] != want {
			mismatches++
			var got any
			if i < len(results) {
				got = results[i]
			}
			logger.Warn("probe mismatch", "point", p, "gpu", got, "cpu", want)
		}
	}
	return mismatches
}

func writePreview(ctx context.Context, logger *slog.Logger, tree *svo.Octree, cfg config.PreviewConfig) error {
	axis, err := preview.ParseAxis(cfg.Axis)
	if err != nil {
		return err
	}
	img, err := preview.SliceContext(ctx, tree, axis, cfg.Level, cfg.Min, cfg.Size)
	if err != nil {
		return err
	}
	if err := preview.WritePNG(cfg.Output, preview.Scale(img, cfg.Scale)); err != nil {
		return err
	}
	logger.Info("preview written", "path", cfg.Output, "axis", axis, "level", cfg.Level)
	return nil
}
