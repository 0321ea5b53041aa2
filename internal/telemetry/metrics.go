package telemetry

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// BattleSummary is reported once per finished battle.
type BattleSummary struct {
	BattleID     uuid.UUID
	Profession   string
	Encounter    string
	Seed         uint64
	Duration     float64
	Events       int
	Segments     int
	TotalDamage  int64
	DPS          float64
	Killed       bool
	KillTime     float64
	PlayerDeaths int
	RngDraws     uint64
	Truncated    bool
}

// MetricsRecorder observes finished battles.
type MetricsRecorder interface {
	RecordBattle(ctx context.Context, s BattleSummary)
}

// Multi fans a summary out to every recorder.
func Multi(recorders ...MetricsRecorder) MetricsRecorder {
	return multi(recorders)
}

type multi []MetricsRecorder

func (m multi) RecordBattle(ctx context.Context, s BattleSummary) {
	for _, r := range m {
		if r != nil {
			r.RecordBattle(ctx, s)
		}
	}
}

// LogMetrics writes one info record per battle.
type LogMetrics struct {
	Logger *slog.Logger
}

func (l LogMetrics) RecordBattle(ctx context.Context, s BattleSummary) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "battle finished",
		"battle_id", s.BattleID,
		"profession", s.Profession,
		"encounter", s.Encounter,
		"seed", s.Seed,
		"duration", s.Duration,
		"events", s.Events,
		"segments", s.Segments,
		"damage", s.TotalDamage,
		"dps", s.DPS,
		"killed", s.Killed,
		"kill_time", s.KillTime,
		"deaths", s.PlayerDeaths,
		"rng_draws", s.RngDraws,
		"truncated", s.Truncated,
	)
}

var errTruncated = errors.New("event budget exhausted")

// SpanMetrics records each battle as a span carrying the summary as
// attributes.
type SpanMetrics struct {
	tracer trace.Tracer
}

// NewSpanMetrics uses a tracer from tp.
func NewSpanMetrics(tp trace.TracerProvider) *SpanMetrics {
	return &SpanMetrics{tracer: tp.Tracer(TracerName)}
}

func (m *SpanMetrics) RecordBattle(ctx context.Context, s BattleSummary) {
	_, span := m.tracer.Start(ctx, "battle",
		trace.WithAttributes(
			attribute.String("battle.id", s.BattleID.String()),
			attribute.String("battle.profession", s.Profession),
			attribute.String("battle.encounter", s.Encounter),
			attribute.Int64("battle.seed", int64(s.Seed)),
			attribute.Float64("battle.duration", s.Duration),
			attribute.Int("battle.events", s.Events),
			attribute.Int("battle.segments", s.Segments),
			attribute.Int64("battle.damage", s.TotalDamage),
			attribute.Float64("battle.dps", s.DPS),
			attribute.Bool("battle.killed", s.Killed),
			attribute.Float64("battle.kill_time", s.KillTime),
			attribute.Int("battle.player_deaths", s.PlayerDeaths),
			attribute.Int64("battle.rng_draws", int64(s.RngDraws)),
		),
	)
	if s.Truncated {
		span.RecordError(errTruncated)
		span.SetStatus(codes.Error, errTruncated.Error())
	}
	span.End()
}
