package apl

import "gopkg.in/yaml.v3"

// ConditionNode captures the raw YAML tree for a `when:` block.
// We keep the node so the compiler can interpret it later.
type ConditionNode struct {
	raw *yaml.Node
}

// Node exposes the underlying YAML node.
func (c *ConditionNode) Node() *yaml.Node {
	if c == nil {
		return nil
	}
	return c.raw
}

// UnmarshalYAML stores the condition tree verbatim.
func (c *ConditionNode) UnmarshalYAML(value *yaml.Node) error {
	c.raw = value
	return nil
}

// NewConditionNode wraps a YAML condition node.
func NewConditionNode(node *yaml.Node) *ConditionNode {
	return &ConditionNode{raw: node}
}

// ParseConditionNode parses YAML source into a ConditionNode.
func ParseConditionNode(src string) (*ConditionNode, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, err
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		return NewConditionNode(doc.Content[0]), nil
	}
	return NewConditionNode(&doc), nil
}
