package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"go.opentelemetry.io/otel"

	"idle-battle-sim/internal/config"
	"idle-battle-sim/internal/engine"
	"idle-battle-sim/internal/telemetry"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	configDir := flag.String("config-dir", env.ConfigDir, "Config directory (empty = embedded defaults)")
	seed := flag.Uint64("seed", 0, "Base RNG seed (0 = SIM_SEED or player.yaml)")
	duration := flag.Float64("duration", env.Duration, "Fight duration in seconds (0 = player.yaml)")
	iterations := flag.Int("iterations", env.Iterations, "Iterations (0 = player.yaml)")
	workers := flag.Int("workers", 0, "Concurrent battles (0 = GOMAXPROCS)")
	combatLogPath := flag.String("combat-log", "", "Write the first iteration's combat log to this file ('-' = stdout)")
	segmentsPath := flag.String("segments-json", "", "Write the first iteration's segments as JSON to this file")
	logLevel := flag.String("log-level", env.LogLevel, "Log level (debug|info|warn|error)")
	logFormat := flag.String("log-format", env.LogFormat, "Log format (text|json)")
	otelEndpoint := flag.String("otel-endpoint", env.OTelEndpoint, "OTLP/HTTP endpoint for battle traces (empty = disabled)")
	flag.Parse()

	logger, err := telemetry.NewLogger(os.Stderr, *logLevel, *logFormat)
	if err != nil {
		log.Fatalf("Invalid logging flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, "idle-battle-sim", *otelEndpoint)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	cfg, err := config.Env{ConfigDir: *configDir}.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	switch {
	case *seed != 0:
		cfg.Player.Simulation.Seed = *seed
	case env.Seed != nil:
		cfg.Player.Simulation.Seed = *env.Seed
	}
	if *duration > 0 {
		cfg.Player.Simulation.DurationSeconds = *duration
	}
	if *iterations <= 0 {
		*iterations = cfg.Player.Simulation.Iterations
	}
	reg, err := cfg.Registry()
	if err != nil {
		log.Fatalf("Failed to build registry: %v", err)
	}
	cfgs, err := engine.IterationConfigs(cfg, reg, *iterations)
	if err != nil {
		log.Fatalf("Failed to prepare battles: %v", err)
	}

	fmt.Println("Idle Battle Simulator")
	fmt.Println("=====================")
	fmt.Printf("Character: %s (%s)\n", cfgs[0].Character.Name, cfgs[0].Module.Name())
	fmt.Printf("Fight Duration: %.0f seconds\n", cfgs[0].Duration)
	fmt.Printf("Iterations: %d, Base Seed: %d\n", len(cfgs), cfgs[0].Seed)
	fmt.Println()

	metrics := telemetry.Multi(
		telemetry.LogMetrics{Logger: logger},
		telemetry.NewSpanMetrics(otel.GetTracerProvider()),
	)
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithMetrics(metrics),
		engine.WithContext(ctx),
	}

	results := make([]*engine.Result, 0, len(cfgs))
	rest := cfgs
	if *combatLogPath != "" {
		w, closeLog, err := openOutput(*combatLogPath)
		if err != nil {
			log.Fatalf("Failed to open combat log: %v", err)
		}
		e, err := engine.New(cfgs[0], append(opts, engine.WithCombatLog(w))...)
		if err != nil {
			log.Fatalf("Failed to start battle: %v", err)
		}
		res, err := e.Run()
		closeLog()
		if err != nil {
			log.Fatalf("Battle failed: %v", err)
		}
		results = append(results, res)
		rest = cfgs[1:]
	}
	batch, err := engine.RunBatch(ctx, rest, *workers, opts...)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}
	results = append(results, batch...)

	if *segmentsPath != "" {
		data, err := results[0].SegmentsJSON()
		if err != nil {
			log.Fatalf("Failed to encode segments: %v", err)
		}
		if err := os.WriteFile(*segmentsPath, data, 0o644); err != nil {
			log.Fatalf("Failed to write segments: %v", err)
		}
	}

	engine.NewReport(results).Write(os.Stdout)
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
