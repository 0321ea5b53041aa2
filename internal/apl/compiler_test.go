package apl

import (
	"strings"
	"testing"
)

type fakeContext struct {
	buffs     map[string]float64
	stacks    map[string]int
	resources map[string]float64
	ready     map[string]bool
	charges   map[string]int
	targetHP  float64
	alive     int
}

func (f fakeContext) BuffActive(id string) bool          { _, ok := f.buffs[id]; return ok }
func (f fakeContext) BuffRemaining(id string) float64    { return f.buffs[id] }
func (f fakeContext) BuffStacks(id string) int           { return f.stacks[id] }
func (f fakeContext) ResourcePercent(res string) float64 { return f.resources[res] }
func (f fakeContext) CooldownReady(skill string) bool    { return f.ready[skill] }
func (f fakeContext) CooldownRemaining(skill string) float64 {
	if f.ready[skill] {
		return 0
	}
	return 5
}
func (f fakeContext) Charges(skill string) int     { return f.charges[skill] }
func (f fakeContext) TargetHealthPercent() float64 { return f.targetHP }
func (f fakeContext) EnemiesAlive() int            { return f.alive }

var testNames = NewNames(
	[]string{"mortal_strike", "execute", "whirlwind"},
	[]string{"enrage", "rend"},
	[]string{"rage"},
)

func compileString(t *testing.T, src string, vars map[string]any) Condition {
	t.Helper()
	node, err := ParseConditionNode(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cond, err := Compile(node, vars, testNames)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return cond
}

func TestCompileNilIsAlways(t *testing.T) {
	cond, err := Compile(nil, nil, testNames)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !cond.Eval(fakeContext{}) {
		t.Fatalf("nil condition should pass")
	}
}

func TestCompileComposite(t *testing.T) {
	src := `
all:
  - resource_percent: {resource: rage, gte: "${min_rage}"}
  - any:
      - target_health_percent: {lt: 20}
      - not:
          buff_active: {buff: rend, min_remaining: 2}
  - enemies_alive: {gte: 1}
`
	cond := compileString(t, src, map[string]any{"min_rage": 30})

	ctx := fakeContext{
		resources: map[string]float64{"rage": 50},
		buffs:     map[string]float64{"rend": 5},
		targetHP:  80,
		alive:     1,
	}
	if cond.Eval(ctx) {
		t.Fatalf("rend is up with enough time and target is healthy; should not pass")
	}
	ctx.targetHP = 10
	if !cond.Eval(ctx) {
		t.Fatalf("execute range should satisfy the any branch")
	}
	ctx.resources["rage"] = 10
	if cond.Eval(ctx) {
		t.Fatalf("low rage should fail")
	}
}

func TestCompileSkillConditions(t *testing.T) {
	cond := compileString(t, `
- cooldown_ready: {skill: mortal_strike}
- charges: {skill: whirlwind, gte: 1}
- buff_stacks: {buff: enrage, lt: 3}
- cooldown_remaining: {skill: execute, gt_seconds: 1}
`, nil)
	ctx := fakeContext{
		ready:   map[string]bool{"mortal_strike": true},
		charges: map[string]int{"whirlwind": 1},
		stacks:  map[string]int{"enrage": 2},
	}
	if !cond.Eval(ctx) {
		t.Fatalf("expected all skill conditions to pass")
	}
	ctx.stacks["enrage"] = 3
	if cond.Eval(ctx) {
		t.Fatalf("stack bound should fail at 3")
	}
}

func TestCompileRejectsUnknownNames(t *testing.T) {
	cases := map[string]string{
		"buff":     `buff_active: {buff: bloodlust}`,
		"skill":    `cooldown_ready: {skill: fireball}`,
		"resource": `resource_percent: {resource: mana, lt: 10}`,
		"cond":     `moon_phase: {full: true}`,
		"variable": `resource_percent: {resource: rage, lt: "${nope}"}`,
	}
	for name, src := range cases {
		node, err := ParseConditionNode(src)
		if err != nil {
			t.Fatalf("%s: parse: %v", name, err)
		}
		if _, err := Compile(node, nil, testNames); err == nil {
			t.Errorf("%s: expected compile error", name)
		}
	}
}

func TestCompileErrorsCarryPath(t *testing.T) {
	node, _ := ParseConditionNode(`all: [true, {buff_active: {buff: nope}}]`)
	_, err := Compile(node, nil, testNames)
	if err == nil || !strings.Contains(err.Error(), "all: condition 1") {
		t.Fatalf("expected nested error path, got %v", err)
	}
}
