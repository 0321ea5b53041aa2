package engine

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"idle-battle-sim/internal/config"
)

func iterationConfigs(t *testing.T, n int) []BattleConfig {
	t.Helper()
	cfg, err := config.LoadDefaults()
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	cfgs, err := IterationConfigs(cfg, reg, n)
	if err != nil {
		t.Fatalf("iteration configs: %v", err)
	}
	return cfgs
}

func TestRunBatchMatchesSequential(t *testing.T) {
	cfgs := iterationConfigs(t, 4)
	for i, c := range cfgs {
		if c.Seed != cfgs[0].Seed+uint64(i) {
			t.Fatalf("iteration %d has seed %d", i, c.Seed)
		}
		if i > 0 && c.Module == cfgs[0].Module {
			t.Fatalf("iterations must not share a module")
		}
	}
	results, err := RunBatch(context.Background(), cfgs, 2)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	for i, c := range iterationConfigs(t, 4) {
		want, err := mustEngine(t, c).Run()
		if err != nil {
			t.Fatalf("sequential %d: %v", i, err)
		}
		if results[i].Seed != c.Seed {
			t.Fatalf("result %d out of order: seed %d", i, results[i].Seed)
		}
		if segmentsDigest(t, results[i]) != segmentsDigest(t, want) {
			t.Fatalf("batch result %d differs from a sequential run", i)
		}
	}
}

func TestRunBatchReportsFailure(t *testing.T) {
	cfgs := []BattleConfig{basicConfig(t), basicConfig(t)}
	cfgs[1].Enemy = nil
	_, err := RunBatch(context.Background(), cfgs, 1)
	if !errors.Is(err, ErrNoEncounter) {
		t.Fatalf("expected ErrNoEncounter, got %v", err)
	}
}

func TestReport(t *testing.T) {
	first, err := mustEngine(t, basicConfig(t)).Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	truncated := basicConfig(t)
	truncated.MaxEventsPerSlice = 2
	second, err := mustEngine(t, truncated).Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	r := NewReport([]*Result{first, second})
	if r.Iterations != 2 || r.KillRate != 50 || r.AvgKillTime != 10 || r.Truncated != 1 {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.MinDPS != 45 || r.MaxDPS != 50 {
		t.Fatalf("unexpected dps range %v..%v", r.MinDPS, r.MaxDPS)
	}
	var out bytes.Buffer
	r.Write(&out)
	for _, want := range []string{"Battle Results", "Kill Rate: 50.0%", "auto_attack", "Truncated Runs: 1"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("report misses %q:\n%s", want, out.String())
		}
	}
	if NewReport(nil) != nil {
		t.Fatalf("empty report should be nil")
	}
}
