package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"idle-battle-sim/internal/character"
	"idle-battle-sim/internal/config"
	"idle-battle-sim/internal/engine"
)

type statDelta struct {
	name  string
	unit  string
	delta float64
	apply func(*character.Stats, float64)
}

var deltas = []statDelta{
	{name: "Attack Power", unit: "AP", delta: 20, apply: func(s *character.Stats, d float64) { s.AttackPower += d }},
	{name: "Spell Power", unit: "SP", delta: 20, apply: func(s *character.Stats, d float64) { s.SpellPower += d }},
	{name: "Crit", unit: "% crit", delta: 1, apply: func(s *character.Stats, d float64) { s.CritPct += d }},
	{name: "Haste", unit: "% haste", delta: 1, apply: func(s *character.Stats, d float64) { s.HastePct += d }},
	{name: "Armor Pen", unit: "armor pen", delta: 20, apply: func(s *character.Stats, d float64) { s.ArmorPenFlat += d }},
	{name: "Magic Pen", unit: "magic pen", delta: 5, apply: func(s *character.Stats, d float64) { s.MagicPenFlat += d }},
}

type weightResult struct {
	delta    statDelta
	weight   float64
	dpsPlus  float64
	dpsMinus float64
}

type sweepConfig struct {
	stat        string
	start       float64
	stop        float64
	step        float64
	concurrency int
	outputDir   string
}

// sim runs every iteration of one stat variant and averages the DPS.
type sim struct {
	cfg        *config.Config
	reg        *config.Registry
	iterations int
}

func (s *sim) dps(ctx context.Context, edit func(*character.Stats)) (float64, error) {
	cfgs, err := engine.IterationConfigs(s.cfg, s.reg, s.iterations)
	if err != nil {
		return 0, err
	}
	for i := range cfgs {
		char := *cfgs[i].Character
		edit(&char.Stats)
		cfgs[i].Character = &char
	}
	results, err := engine.RunBatch(ctx, cfgs, 1)
	if err != nil {
		return 0, err
	}
	return engine.NewReport(results).AvgDPS, nil
}

func main() {
	configDir := flag.String("config-dir", "", "Config directory (empty = embedded defaults)")
	iterations := flag.Int("iterations", 0, "Iterations per variant (0 = player.yaml)")
	seedBase := flag.Uint64("seed-base", 0, "Base RNG seed shared by every variant (0 = player.yaml)")
	verbose := flag.Bool("verbose", false, "Show plus/minus DPS columns")
	sweepStat := flag.String("stat", "", "Stat to sweep (ap|sp|crit|haste). If set, runs sweep mode instead of central-diff weights.")
	sweepStart := flag.Float64("start", math.NaN(), "Sweep start. Defaults depend on stat.")
	sweepStop := flag.Float64("stop", math.NaN(), "Sweep stop. Defaults depend on stat.")
	sweepStep := flag.Float64("step", math.NaN(), "Sweep step. Defaults depend on stat.")
	concurrency := flag.Int("concurrency", 0, "Concurrent variants (0 = num CPU).")
	outputDir := flag.String("output-dir", "output/stat_curves", "Directory for sweep CSV output.")
	flag.Parse()

	cfg, err := config.Env{ConfigDir: *configDir}.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *seedBase != 0 {
		cfg.Player.Simulation.Seed = *seedBase
	}
	if *iterations <= 0 {
		*iterations = max(cfg.Player.Simulation.Iterations, 1)
	}
	reg, err := cfg.Registry()
	if err != nil {
		log.Fatalf("Failed to build registry: %v", err)
	}
	if *concurrency <= 0 {
		*concurrency = runtime.NumCPU()
	}
	s := &sim{cfg: cfg, reg: reg, iterations: *iterations}
	ctx := context.Background()

	if *sweepStat != "" {
		base := cfg.Character().Stats
		sweepCfg, err := buildSweepConfig(*sweepStat, *sweepStart, *sweepStop, *sweepStep, *concurrency, *outputDir, base)
		if err != nil {
			log.Fatalf("Sweep config error: %v", err)
		}
		if err := runSweep(ctx, s, sweepCfg); err != nil {
			log.Fatalf("Sweep failed: %v", err)
		}
		return
	}

	baseline, err := s.dps(ctx, func(*character.Stats) {})
	if err != nil {
		log.Fatalf("Baseline failed: %v", err)
	}
	fmt.Printf("Stat Weights (central diff, shared seed %d)\n", cfg.Player.Simulation.Seed)
	fmt.Printf("Profession: %s\n", cfg.Player.Character.Profession)
	fmt.Printf("Iterations: %d, Duration: %.0fs\n\n", *iterations, cfg.Player.Simulation.DurationSeconds)
	fmt.Printf("Baseline DPS: %.2f\n\n", baseline)

	results := make([]weightResult, len(deltas))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(*concurrency)
	for i, sd := range deltas {
		eg.Go(func() error {
			plus, err := s.dps(ctx, func(st *character.Stats) { sd.apply(st, sd.delta) })
			if err != nil {
				return fmt.Errorf("%s +%v: %w", sd.name, sd.delta, err)
			}
			minus, err := s.dps(ctx, func(st *character.Stats) { sd.apply(st, -sd.delta) })
			if err != nil {
				return fmt.Errorf("%s -%v: %w", sd.name, sd.delta, err)
			}
			results[i] = weightResult{
				delta:    sd,
				weight:   (plus - minus) / (2 * sd.delta),
				dpsPlus:  plus,
				dpsMinus: minus,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		log.Fatalf("Stat weights failed: %v", err)
	}

	w := tabWriter()
	if *verbose {
		fmt.Fprintf(w, "Stat\tDelta\tDPS/Unit\tPlus DPS\tMinus DPS\n")
	} else {
		fmt.Fprintf(w, "Stat\tDelta\tDPS/Unit\n")
	}
	for _, res := range results {
		if *verbose {
			fmt.Fprintf(w, "%s\t%+.0f %s\t%.3f\t%.2f\t%.2f\n",
				res.delta.name, res.delta.delta, res.delta.unit, res.weight, res.dpsPlus, res.dpsMinus)
		} else {
			fmt.Fprintf(w, "%s\t%+.0f %s\t%.3f\n",
				res.delta.name, res.delta.delta, res.delta.unit, res.weight)
		}
	}
	w.Flush()

	// Normalize against whichever of AP and SP weighs more.
	primary := results[0]
	if math.Abs(results[1].weight) > math.Abs(primary.weight) {
		primary = results[1]
	}
	if primary.weight != 0 {
		nw := tabWriter()
		fmt.Fprintf(nw, "\nNormalized (%s = 1.0)\n", primary.delta.unit)
		fmt.Fprintf(nw, "Stat\tWeight\n")
		for _, res := range results {
			fmt.Fprintf(nw, "%s\t%.3f\n", res.delta.name, res.weight/primary.weight)
		}
		nw.Flush()
	}
}

// tabWriter creates a tab-aligned writer for consistent table output.
func tabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func buildSweepConfig(stat string, start, stop, step float64, concurrency int, outputDir string, base character.Stats) (sweepConfig, error) {
	cfg := sweepConfig{
		stat:        strings.ToLower(stat),
		start:       start,
		stop:        stop,
		step:        step,
		concurrency: concurrency,
		outputDir:   outputDir,
	}
	defaults := func(start, stop, step float64) {
		if math.IsNaN(cfg.start) {
			cfg.start = start
		}
		if math.IsNaN(cfg.stop) {
			cfg.stop = stop
		}
		if math.IsNaN(cfg.step) {
			cfg.step = step
		}
	}
	switch cfg.stat {
	case "crit":
		defaults(0, 50, 1)
	case "haste":
		defaults(0, 40, 1)
	case "ap", "attack_power":
		cfg.stat = "ap"
		defaults(base.AttackPower, base.AttackPower+800, 50)
	case "sp", "spell_power":
		cfg.stat = "sp"
		defaults(base.SpellPower, base.SpellPower+800, 50)
	default:
		return sweepConfig{}, fmt.Errorf("unsupported stat %q (use ap|sp|crit|haste)", stat)
	}
	if cfg.step <= 0 {
		return sweepConfig{}, fmt.Errorf("step must be > 0 (got %.2f)", cfg.step)
	}
	if cfg.stop <= cfg.start {
		return sweepConfig{}, fmt.Errorf("stop must be > start (start=%.2f, stop=%.2f)", cfg.start, cfg.stop)
	}
	return cfg, nil
}

func applyStat(s *character.Stats, stat string, value float64) {
	switch stat {
	case "crit":
		s.CritPct = value
	case "haste":
		s.HastePct = value
	case "ap":
		s.AttackPower = value
	case "sp":
		s.SpellPower = value
	}
}

func runSweep(ctx context.Context, s *sim, sweepCfg sweepConfig) error {
	var values []float64
	for v := sweepCfg.start; v <= sweepCfg.stop+1e-9; v += sweepCfg.step {
		values = append(values, v)
	}
	dps := make([]float64, len(values))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(sweepCfg.concurrency)
	for i, v := range values {
		eg.Go(func() error {
			d, err := s.dps(ctx, func(st *character.Stats) { applyStat(st, sweepCfg.stat, v) })
			if err != nil {
				return fmt.Errorf("%s=%.2f: %w", sweepCfg.stat, v, err)
			}
			dps[i] = d
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	if err := os.MkdirAll(sweepCfg.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	outPath := filepath.Join(sweepCfg.outputDir, sweepCfg.stat+".csv")
	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", outPath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"stat_value", "dps", "dps_per_point"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, v := range values {
		record := []string{fmt.Sprintf("%.4f", v), fmt.Sprintf("%.4f", dps[i]), ""}
		if i > 0 {
			record[2] = fmt.Sprintf("%.6f", (dps[i]-dps[i-1])/(v-values[i-1]))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	fmt.Printf("Sweep complete (%s): %d points, iterations/point=%d, output=%s\n", sweepCfg.stat, len(values), s.iterations, outPath)
	return nil
}
