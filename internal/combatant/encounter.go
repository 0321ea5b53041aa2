package combatant

import "errors"

var ErrEmptyEncounter = errors.New("encounter has no enemies")

// Encounter is the set of enemies a battle is fought against.
type Encounter interface {
	Enemies() []*Enemy
	Alive() []*Enemy
	Primary() *Enemy
	Dead() bool
	KillTime() float64
	Overkill() int64
}

// Group is an Encounter made of one or more enemies. It is dead once every
// member is dead.
type Group struct {
	ID      string
	enemies []*Enemy
}

// NewGroup spawns one enemy per definition, in order.
func NewGroup(id string, defs ...*EnemyDefinition) (*Group, error) {
	if len(defs) == 0 {
		return nil, ErrEmptyEncounter
	}
	g := &Group{ID: id, enemies: make([]*Enemy, 0, len(defs))}
	for i, def := range defs {
		g.enemies = append(g.enemies, NewEnemy(def, i))
	}
	return g, nil
}

// NewSingle wraps one enemy definition as an encounter.
func NewSingle(def *EnemyDefinition) *Group {
	g, _ := NewGroup(def.ID, def)
	return g
}

func (g *Group) Enemies() []*Enemy {
	return g.enemies
}

// Alive returns the targetable enemies in group order.
func (g *Group) Alive() []*Enemy {
	alive := make([]*Enemy, 0, len(g.enemies))
	for _, e := range g.enemies {
		if e.CanBeTargeted() {
			alive = append(alive, e)
		}
	}
	return alive
}

// Primary returns the first living enemy, or the first enemy when all are dead.
func (g *Group) Primary() *Enemy {
	for _, e := range g.enemies {
		if e.CanBeTargeted() {
			return e
		}
	}
	return g.enemies[0]
}

func (g *Group) Dead() bool {
	for _, e := range g.enemies {
		if e.State() != StateDead {
			return false
		}
	}
	return true
}

// KillTime returns the death time of the last enemy to die.
func (g *Group) KillTime() float64 {
	if !g.Dead() {
		return 0
	}
	return g.last().DeathTime()
}

// Overkill returns the overkill of the final killing blow.
func (g *Group) Overkill() int64 {
	if !g.Dead() {
		return 0
	}
	return g.last().Overkill()
}

func (g *Group) last() *Enemy {
	last := g.enemies[0]
	for _, e := range g.enemies[1:] {
		if e.DeathTime() >= last.DeathTime() {
			last = e
		}
	}
	return last
}
