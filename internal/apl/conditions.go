package apl

// EvaluationContext is provided by the battle when evaluating skill gates.
type EvaluationContext interface {
	BuffActive(id string) bool
	BuffRemaining(id string) float64
	BuffStacks(id string) int
	ResourcePercent(resource string) float64
	CooldownReady(skill string) bool
	CooldownRemaining(skill string) float64
	Charges(skill string) int
	TargetHealthPercent() float64
	EnemiesAlive() int
}

// Condition evaluates to true/false for a given context.
type Condition interface {
	Eval(ctx EvaluationContext) bool
}

// Always true/false conditions.
type trueCondition struct{}

func (trueCondition) Eval(EvaluationContext) bool { return true }

type falseCondition struct{}

func (falseCondition) Eval(EvaluationContext) bool { return false }

// Always returns a condition that always passes.
func Always() Condition { return trueCondition{} }

// anyCondition is logical OR.
type anyCondition struct {
	children []Condition
}

func (c anyCondition) Eval(ctx EvaluationContext) bool {
	for _, child := range c.children {
		if child.Eval(ctx) {
			return true
		}
	}
	return false
}

// allCondition is logical AND.
type allCondition struct {
	children []Condition
}

func (c allCondition) Eval(ctx EvaluationContext) bool {
	for _, child := range c.children {
		if !child.Eval(ctx) {
			return false
		}
	}
	return true
}

// notCondition negates a child.
type notCondition struct {
	child Condition
}

func (c notCondition) Eval(ctx EvaluationContext) bool {
	if c.child == nil {
		return true
	}
	return !c.child.Eval(ctx)
}

// floatRange holds optional comparison bounds.
type floatRange struct {
	lt, lte, gt, gte *float64
}

func (r floatRange) match(v float64) bool {
	if r.lt != nil && !(v < *r.lt) {
		return false
	}
	if r.lte != nil && !(v <= *r.lte) {
		return false
	}
	if r.gt != nil && !(v > *r.gt) {
		return false
	}
	if r.gte != nil && !(v >= *r.gte) {
		return false
	}
	return true
}

type buffActiveCondition struct {
	id           string
	minRemaining *float64
	maxRemaining *float64
}

func (c buffActiveCondition) Eval(ctx EvaluationContext) bool {
	if ctx == nil || !ctx.BuffActive(c.id) {
		return false
	}
	remaining := ctx.BuffRemaining(c.id)
	if c.minRemaining != nil && remaining < *c.minRemaining {
		return false
	}
	if c.maxRemaining != nil && remaining > *c.maxRemaining {
		return false
	}
	return true
}

type buffStacksCondition struct {
	id     string
	bounds floatRange
}

func (c buffStacksCondition) Eval(ctx EvaluationContext) bool {
	if ctx == nil {
		return false
	}
	return c.bounds.match(float64(ctx.BuffStacks(c.id)))
}

// resourcePercentCondition compares resource levels (rage, mana, ...).
type resourcePercentCondition struct {
	resource string
	bounds   floatRange
}

func (c resourcePercentCondition) Eval(ctx EvaluationContext) bool {
	if ctx == nil {
		return false
	}
	return c.bounds.match(ctx.ResourcePercent(c.resource))
}

type cooldownReadyCondition struct {
	skill string
}

func (c cooldownReadyCondition) Eval(ctx EvaluationContext) bool {
	if ctx == nil {
		return false
	}
	return ctx.CooldownReady(c.skill)
}

type cooldownRemainingCondition struct {
	skill  string
	bounds floatRange
}

func (c cooldownRemainingCondition) Eval(ctx EvaluationContext) bool {
	if ctx == nil {
		return false
	}
	return c.bounds.match(ctx.CooldownRemaining(c.skill))
}

type chargesCondition struct {
	skill  string
	bounds floatRange
}

func (c chargesCondition) Eval(ctx EvaluationContext) bool {
	if ctx == nil {
		return false
	}
	return c.bounds.match(float64(ctx.Charges(c.skill)))
}

type targetHealthCondition struct {
	bounds floatRange
}

func (c targetHealthCondition) Eval(ctx EvaluationContext) bool {
	if ctx == nil {
		return false
	}
	return c.bounds.match(ctx.TargetHealthPercent())
}

type enemiesAliveCondition struct {
	bounds floatRange
}

func (c enemiesAliveCondition) Eval(ctx EvaluationContext) bool {
	if ctx == nil {
		return false
	}
	return c.bounds.match(float64(ctx.EnemiesAlive()))
}
