package apl

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Compile turns a `when:` tree into a Condition. A nil node always passes.
func Compile(node *ConditionNode, vars map[string]any, names Names) (Condition, error) {
	if node == nil || node.Node() == nil {
		return trueCondition{}, nil
	}
	c := compiler{vars: vars, names: names}
	return c.parseNode(node.Node())
}

type compiler struct {
	vars  map[string]any
	names Names
}

func (c compiler) parseNode(node *yaml.Node) (Condition, error) {
	switch node.Kind {
	case yaml.MappingNode:
		return c.parseMapping(node)
	case yaml.SequenceNode:
		// Treat bare sequences as implicit "all"
		children, err := c.parseSequence(node)
		if err != nil {
			return nil, err
		}
		return allCondition{children: children}, nil
	case yaml.ScalarNode:
		var boolVal bool
		if err := node.Decode(&boolVal); err == nil {
			if boolVal {
				return trueCondition{}, nil
			}
			return falseCondition{}, nil
		}
		return nil, fmt.Errorf("unsupported scalar condition: %s", node.Value)
	default:
		return nil, fmt.Errorf("unsupported YAML node kind %d", node.Kind)
	}
}

func (c compiler) parseMapping(node *yaml.Node) (Condition, error) {
	if len(node.Content)%2 != 0 || len(node.Content) == 0 {
		return nil, fmt.Errorf("condition mapping must have key/value pairs")
	}
	if len(node.Content) != 2 {
		return nil, fmt.Errorf("condition mapping must have exactly one entry")
	}

	key := node.Content[0].Value
	val := node.Content[1]

	switch key {
	case "all":
		children, err := c.parseSequence(val)
		if err != nil {
			return nil, fmt.Errorf("all: %w", err)
		}
		return allCondition{children: children}, nil
	case "any":
		children, err := c.parseSequence(val)
		if err != nil {
			return nil, fmt.Errorf("any: %w", err)
		}
		return anyCondition{children: children}, nil
	case "not":
		child, err := c.parseNode(val)
		if err != nil {
			return nil, fmt.Errorf("not: %w", err)
		}
		return notCondition{child: child}, nil
	case "true":
		return trueCondition{}, nil
	case "false":
		return falseCondition{}, nil
	case "buff_active":
		params, err := nodeToMap(val)
		if err != nil {
			return nil, err
		}
		raw, err := c.stringField(params, "buff", true)
		if err != nil {
			return nil, err
		}
		id, err := c.names.buff(raw)
		if err != nil {
			return nil, err
		}
		cond := buffActiveCondition{id: id}
		if cond.minRemaining, err = c.floatField(params, "min_remaining"); err != nil {
			return nil, err
		}
		if cond.maxRemaining, err = c.floatField(params, "max_remaining"); err != nil {
			return nil, err
		}
		return cond, nil
	case "buff_stacks":
		params, err := nodeToMap(val)
		if err != nil {
			return nil, err
		}
		raw, err := c.stringField(params, "buff", true)
		if err != nil {
			return nil, err
		}
		id, err := c.names.buff(raw)
		if err != nil {
			return nil, err
		}
		bounds, err := c.bounds(params, "")
		if err != nil {
			return nil, err
		}
		return buffStacksCondition{id: id, bounds: bounds}, nil
	case "resource_percent":
		params, err := nodeToMap(val)
		if err != nil {
			return nil, err
		}
		raw, err := c.stringField(params, "resource", true)
		if err != nil {
			return nil, err
		}
		res, err := c.names.resource(raw)
		if err != nil {
			return nil, err
		}
		bounds, err := c.bounds(params, "")
		if err != nil {
			return nil, err
		}
		return resourcePercentCondition{resource: res, bounds: bounds}, nil
	case "cooldown_ready":
		params, err := nodeToMap(val)
		if err != nil {
			return nil, err
		}
		raw, err := c.stringField(params, "skill", true)
		if err != nil {
			return nil, err
		}
		skill, err := c.names.skill(raw)
		if err != nil {
			return nil, err
		}
		return cooldownReadyCondition{skill: skill}, nil
	case "cooldown_remaining":
		params, err := nodeToMap(val)
		if err != nil {
			return nil, err
		}
		raw, err := c.stringField(params, "skill", true)
		if err != nil {
			return nil, err
		}
		skill, err := c.names.skill(raw)
		if err != nil {
			return nil, err
		}
		bounds, err := c.bounds(params, "_seconds")
		if err != nil {
			return nil, err
		}
		return cooldownRemainingCondition{skill: skill, bounds: bounds}, nil
	case "charges":
		params, err := nodeToMap(val)
		if err != nil {
			return nil, err
		}
		raw, err := c.stringField(params, "skill", true)
		if err != nil {
			return nil, err
		}
		skill, err := c.names.skill(raw)
		if err != nil {
			return nil, err
		}
		bounds, err := c.bounds(params, "")
		if err != nil {
			return nil, err
		}
		return chargesCondition{skill: skill, bounds: bounds}, nil
	case "target_health_percent":
		params, err := nodeToMap(val)
		if err != nil {
			return nil, err
		}
		bounds, err := c.bounds(params, "")
		if err != nil {
			return nil, err
		}
		return targetHealthCondition{bounds: bounds}, nil
	case "enemies_alive":
		params, err := nodeToMap(val)
		if err != nil {
			return nil, err
		}
		bounds, err := c.bounds(params, "")
		if err != nil {
			return nil, err
		}
		return enemiesAliveCondition{bounds: bounds}, nil
	default:
		return nil, fmt.Errorf("unknown condition '%s'", key)
	}
}

func (c compiler) parseSequence(node *yaml.Node) ([]Condition, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected sequence, got %d", node.Kind)
	}
	children := make([]Condition, 0, len(node.Content))
	for idx, childNode := range node.Content {
		child, err := c.parseNode(childNode)
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", idx, err)
		}
		children = append(children, child)
	}
	return children, nil
}

// bounds reads lt/lte/gt/gte, each optionally suffixed (e.g. lt_seconds).
func (c compiler) bounds(params map[string]*yaml.Node, suffix string) (floatRange, error) {
	var r floatRange
	var err error
	if r.lt, err = c.floatField(params, "lt"+suffix); err != nil {
		return r, err
	}
	if r.lte, err = c.floatField(params, "lte"+suffix); err != nil {
		return r, err
	}
	if r.gt, err = c.floatField(params, "gt"+suffix); err != nil {
		return r, err
	}
	if r.gte, err = c.floatField(params, "gte"+suffix); err != nil {
		return r, err
	}
	return r, nil
}

func nodeToMap(node *yaml.Node) (map[string]*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected mapping node, got %d", node.Kind)
	}
	result := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		result[key] = node.Content[i+1]
	}
	return result, nil
}

func (c compiler) stringField(fields map[string]*yaml.Node, key string, required bool) (string, error) {
	node, ok := fields[key]
	if !ok {
		if required {
			return "", fmt.Errorf("missing field '%s'", key)
		}
		return "", nil
	}
	val, err := c.resolveScalar(node)
	if err != nil {
		return "", err
	}
	switch v := val.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

func (c compiler) floatField(fields map[string]*yaml.Node, key string) (*float64, error) {
	node, ok := fields[key]
	if !ok {
		return nil, nil
	}
	val, err := c.resolveScalar(node)
	if err != nil {
		return nil, err
	}
	switch v := val.(type) {
	case float64:
		return &v, nil
	case int:
		f := float64(v)
		return &f, nil
	case int64:
		f := float64(v)
		return &f, nil
	case uint64:
		f := float64(v)
		return &f, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, err
		}
		return &parsed, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to float for key '%s'", v, key)
	}
}

func (c compiler) resolveScalar(node *yaml.Node) (interface{}, error) {
	if node == nil {
		return nil, fmt.Errorf("nil scalar")
	}
	var out interface{}
	if err := node.Decode(&out); err != nil {
		return nil, err
	}
	if str, ok := out.(string); ok {
		str = strings.TrimSpace(str)
		if strings.HasPrefix(str, "${") && strings.HasSuffix(str, "}") {
			name := strings.TrimSpace(str[2 : len(str)-1])
			if c.vars == nil {
				return nil, fmt.Errorf("variable '%s' not defined", name)
			}
			val, ok := c.vars[name]
			if !ok {
				return nil, fmt.Errorf("variable '%s' not defined", name)
			}
			return val, nil
		}
	}
	return out, nil
}
