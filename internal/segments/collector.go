package segments

import (
	"maps"

	"idle-battle-sim/internal/character"
)

const (
	DefaultMaxEvents   = 200
	DefaultMaxDuration = 5.0
)

// Limits bounds the size of one segment.
type Limits struct {
	MaxEvents   int
	MaxDuration float64
}

func (l Limits) withDefaults() Limits {
	if l.MaxEvents <= 0 {
		l.MaxEvents = DefaultMaxEvents
	}
	if l.MaxDuration <= 0 {
		l.MaxDuration = DefaultMaxDuration
	}
	return l
}

// CombatSegment is one flushed aggregation window. Flushed segments own
// their maps and are never written again.
type CombatSegment struct {
	Index          int                `json:"index"`
	StartTime      float64            `json:"start_time"`
	EndTime        float64            `json:"end_time"`
	EventCount     int                `json:"event_count"`
	TotalDamage    int64              `json:"total_damage"`
	DamageBySource map[string]int64   `json:"damage_by_source"`
	DamageByType   map[string]int64   `json:"damage_by_type"`
	Tags           map[string]int     `json:"tags"`
	ResourceFlow   map[string]float64 `json:"resource_flow"`
	RngIndexStart  uint64             `json:"rng_index_start"`
	RngIndexEnd    uint64             `json:"rng_index_end"`
}

// Duration returns the segment length in seconds.
func (s CombatSegment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// Clone returns a deep copy.
func (s CombatSegment) Clone() CombatSegment {
	s.DamageBySource = maps.Clone(s.DamageBySource)
	s.DamageByType = maps.Clone(s.DamageByType)
	s.Tags = maps.Clone(s.Tags)
	s.ResourceFlow = maps.Clone(s.ResourceFlow)
	return s
}

// Collector accumulates per-event data into rolling segments.
type Collector struct {
	limits Limits

	start    float64
	events   int
	total    int64
	bySource map[string]int64
	byType   map[string]int64
	tags     map[string]int
	flow     map[string]float64

	rngSeen  bool
	rngStart uint64
	rngEnd   uint64
	cursor   uint64

	flushed []CombatSegment
}

// NewCollector starts the first segment at start. rngIndex is the RNG cursor
// at that moment and becomes the range of segments that draw nothing.
func NewCollector(limits Limits, start float64, rngIndex uint64) *Collector {
	c := &Collector{limits: limits.withDefaults(), cursor: rngIndex}
	c.reset(start)
	return c
}

// Limits returns the effective limits.
func (c *Collector) Limits() Limits {
	return c.limits
}

func (c *Collector) reset(start float64) {
	c.start = start
	c.events = 0
	c.total = 0
	c.bySource = make(map[string]int64)
	c.byType = make(map[string]int64)
	c.tags = make(map[string]int)
	c.flow = make(map[string]float64)
	c.rngSeen = false
}

// RecordDamage adds applied damage from source.
func (c *Collector) RecordDamage(source string, amount int64, typ character.DamageType) {
	if amount <= 0 {
		return
	}
	c.total += amount
	c.bySource[source] += amount
	c.byType[typ.String()] += amount
}

// AddTag bumps a tag counter by n.
func (c *Collector) AddTag(tag string, n int) {
	if n == 0 {
		return
	}
	c.tags[tag] += n
}

// RecordResource adds a signed resource delta.
func (c *Collector) RecordResource(id string, delta float64) {
	if delta == 0 {
		return
	}
	c.flow[id] += delta
}

// ObserveRng widens the segment's RNG range with the cursor positions taken
// before and after one unit of work.
func (c *Collector) ObserveRng(before, after uint64) {
	if !c.rngSeen {
		c.rngStart, c.rngEnd = before, after
		c.rngSeen = true
	} else {
		c.rngStart = min(c.rngStart, before)
		c.rngEnd = max(c.rngEnd, after)
	}
	c.cursor = max(c.cursor, after)
}

// Tick counts one executed event.
func (c *Collector) Tick() {
	c.events++
}

// Pending reports whether anything was recorded since the last flush.
func (c *Collector) Pending() bool {
	return c.events > 0 || c.total > 0 || len(c.tags) > 0 || len(c.flow) > 0
}

// EventCount returns the events counted in the open segment.
func (c *Collector) EventCount() int {
	return c.events
}

// ShouldFlush reports whether the open segment reached a limit.
func (c *Collector) ShouldFlush(now float64) bool {
	return c.events >= c.limits.MaxEvents || now-c.start >= c.limits.MaxDuration
}

// Flush closes the open segment at now and starts the next one there.
func (c *Collector) Flush(now float64) CombatSegment {
	seg := CombatSegment{
		Index:          len(c.flushed),
		StartTime:      c.start,
		EndTime:        now,
		EventCount:     c.events,
		TotalDamage:    c.total,
		DamageBySource: c.bySource,
		DamageByType:   c.byType,
		Tags:           c.tags,
		ResourceFlow:   c.flow,
		RngIndexStart:  c.cursor,
		RngIndexEnd:    c.cursor,
	}
	if c.rngSeen {
		seg.RngIndexStart, seg.RngIndexEnd = c.rngStart, c.rngEnd
	}
	c.flushed = append(c.flushed, seg)
	c.reset(now)
	return seg.Clone()
}

// ForceFlush flushes only when data is pending.
func (c *Collector) ForceFlush(now float64) (CombatSegment, bool) {
	if !c.Pending() {
		return CombatSegment{}, false
	}
	return c.Flush(now), true
}

// Segments returns copies of every flushed segment in order.
func (c *Collector) Segments() []CombatSegment {
	out := make([]CombatSegment, len(c.flushed))
	for i, seg := range c.flushed {
		out[i] = seg.Clone()
	}
	return out
}
