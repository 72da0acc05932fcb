package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/oxy-skeletal/engine"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/profiler"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/window"
	"github.com/Carmen-Shannon/oxy-skeletal/internal/config"
	"github.com/Carmen-Shannon/oxy-skeletal/internal/demo"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	flags      config.Flags
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "skeletal-demo",
		Short: "Run the skeletal animation demo",
		Long: "Runs a player-controlled skinned character and an animated crowd. WASD or the arrow keys\n" +
			"walk and turn, space jumps. Without --window the demo runs headless.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "path to a TOML config file")
	f.StringVarP(&opts.flags.Model, "model", "m", "", "glTF/GLB model to animate (default: built-in arm rig)")
	f.IntVarP(&opts.flags.Frames, "frames", "n", 0, "stop after this many frames (0 = until quit)")
	f.BoolVarP(&opts.flags.Window, "window", "w", false, "open a GLFW window for keyboard input")
	f.BoolVar(&opts.flags.Profile, "profile", false, "log frame rate and memory statistics")
	f.StringVar(&opts.flags.LogLevel, "log-level", "", "debug, info, warn or error")
	f.IntVar(&opts.flags.Instances, "instances", 0, "number of animated instances including the player")
	return cmd
}

func run(cmd *cobra.Command, opts *rootOptions) error {
	file, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	cfg := file.Resolve(opts.flags)
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	queue := &demo.CountingQueue{}
	scene, err := demo.NewScene(cfg, queue, logger)
	if err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}
	defer scene.Close()

	engineOptions := []engine.EngineBuilderOption{
		engine.WithLogger(logger),
		engine.WithTickRate(cfg.TickRate),
		engine.WithFrameLimit(cfg.Frames),
		engine.WithProfiling(cfg.Profile),
		engine.WithProfiler(profiler.NewProfiler(profiler.WithLogger(logger))),
		engine.WithTickCallback(scene.Tick),
		engine.WithRenderCallback(scene.Render),
	}
	if cfg.Window {
		w, err := window.NewWindow(window.WithTitle("oxy-skeletal demo"), window.WithLogger(logger))
		if err != nil {
			return err
		}
		w.SetKeyDownCallback(scene.KeyDown)
		w.SetKeyUpCallback(scene.KeyUp)
		engineOptions = append(engineOptions, engine.WithWindow(w))
	}
	eng := engine.NewEngine(engineOptions...)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("demo finished", "frames", eng.Frames(), "palette_writes", queue.Writes, "palette_bytes", queue.Bytes)
	return nil
}
