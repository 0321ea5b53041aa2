package apl

import (
	"fmt"
	"strings"
)

// Names lists the identifiers a condition may reference. A nil set skips
// validation for that kind.
type Names struct {
	Skills    map[string]struct{}
	Buffs     map[string]struct{}
	Resources map[string]struct{}
}

// NewNames builds a Names value from plain id lists.
func NewNames(skills, buffs, resources []string) Names {
	return Names{
		Skills:    toSet(skills),
		Buffs:     toSet(buffs),
		Resources: toSet(resources),
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[normalizeName(id)] = struct{}{}
	}
	return set
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func validateName(kind, name string, known map[string]struct{}) (string, error) {
	n := normalizeName(name)
	if n == "" {
		return n, fmt.Errorf("%s name missing", kind)
	}
	if known == nil {
		return n, nil
	}
	if _, ok := known[n]; !ok {
		return "", fmt.Errorf("unknown %s '%s'", kind, name)
	}
	return n, nil
}

func (n Names) skill(name string) (string, error) {
	return validateName("skill", name, n.Skills)
}

func (n Names) buff(name string) (string, error) {
	return validateName("buff", name, n.Buffs)
}

func (n Names) resource(name string) (string, error) {
	return validateName("resource", name, n.Resources)
}
