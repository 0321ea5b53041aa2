package engine

import "github.com/google/uuid"

// Battle is the identity and lifetime of one fight.
type Battle struct {
	ID              uuid.UUID `json:"id"`
	CharacterID     uuid.UUID `json:"character_id"`
	AttackInterval  float64   `json:"attack_interval"`
	SpecialInterval float64   `json:"special_interval"`
	StartTime       float64   `json:"start_time"`
	EndTime         float64   `json:"end_time"`
	Finished        bool      `json:"finished"`
}

func newBattle(id, characterID uuid.UUID, attack, special, start float64) *Battle {
	return &Battle{
		ID:              id,
		CharacterID:     characterID,
		AttackInterval:  attack,
		SpecialInterval: special,
		StartTime:       start,
	}
}

// Finish marks the battle finished at t. Only the first call has an effect;
// it reports whether this call finished the battle.
func (b *Battle) Finish(t float64) bool {
	if b.Finished {
		return false
	}
	b.Finished = true
	b.EndTime = t
	return true
}

// Elapsed returns the fight length, or 0 while it is running.
func (b *Battle) Elapsed() float64 {
	if !b.Finished {
		return 0
	}
	return b.EndTime - b.StartTime
}
