package tree

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Decode parses a JSON or YAML document into a Value. JSON is decoded by the
// YAML parser so that mapping order survives.
func Decode(data []byte) (*Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	return FromNode(&node)
}

// FromNode converts a parsed YAML node. An empty document yields nil.
func FromNode(node *yaml.Node) (*Value, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return FromNode(node.Content[0])
	case yaml.AliasNode:
		return FromNode(node.Alias)
	case yaml.MappingNode:
		m := NewMapping()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			if keyNode.Tag == "!!merge" {
				merged, err := FromNode(valNode)
				if err != nil {
					return nil, err
				}
				if merged != nil && merged.IsMapping() {
					for _, k := range merged.keys {
						if !m.Has(k) {
							m.SetField(k, merged.fields[k])
						}
					}
				}
				continue
			}
			child, err := FromNode(valNode)
			if err != nil {
				return nil, err
			}
			m.SetField(keyNode.Value, child)
		}
		return m, nil
	case yaml.SequenceNode:
		seq := Sequence()
		for _, c := range node.Content {
			child, err := FromNode(c)
			if err != nil {
				return nil, err
			}
			seq.Append(child)
		}
		return seq, nil
	case yaml.ScalarNode:
		var raw any
		if err := node.Decode(&raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Scalar(raw), nil
	}
	return nil, fmt.Errorf("unsupported yaml node kind %d", node.Kind)
}

// MarshalYAML emits mappings in insertion order.
func (v *Value) MarshalYAML() (interface{}, error) {
	return v.node()
}

func (v *Value) node() (*yaml.Node, error) {
	switch v.kind {
	case KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range v.keys {
			child, err := v.fields[k].node()
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				child)
		}
		return n, nil
	case KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range v.items {
			child, err := it.node()
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v.scalar); err != nil {
		return nil, err
	}
	return n, nil
}

// UnmarshalYAML keeps key order when a Value is a decode target.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := FromNode(node)
	if err != nil {
		return err
	}
	if decoded == nil {
		decoded = Scalar(nil)
	}
	*v = *decoded
	return nil
}
