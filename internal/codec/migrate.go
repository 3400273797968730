package codec

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// The persisted schema went through several incompatible shapes for
// the selection and the category order lists. The list types below
// recognize each variant and normalize it to the current one, so
// migration happens at decode time rather than ad hoc in callers.

// selectionList accepts the current plain sequence of item ids or the
// legacy {selectedItemIds: [...]} wrapper.
type selectionList []string

func (s *selectionList) UnmarshalYAML(value *yaml.Node) error {
	switch {
	case value.Tag == "!!null":
		*s = nil
	case value.Kind == yaml.SequenceNode:
		var ids []string
		if err := value.Decode(&ids); err != nil {
			return fmt.Errorf("%w: selection must be a sequence of item ids", ErrInvalid)
		}
		*s = ids
	case value.Kind == yaml.MappingNode:
		var legacy struct {
			SelectedItemIDs []string `yaml:"selectedItemIds"`
		}
		if err := value.Decode(&legacy); err != nil {
			return fmt.Errorf("%w: selection.selectedItemIds must be a sequence of item ids", ErrInvalid)
		}
		*s = legacy.SelectedItemIDs
	default:
		return fmt.Errorf("%w: selection must be a sequence", ErrInvalid)
	}
	return nil
}

// categoryList accepts the current sequence of names or the legacy
// sequence of {name, order} pairs, which it sorts by order.
type categoryList []string

func (c *categoryList) UnmarshalYAML(value *yaml.Node) error {
	switch {
	case value.Tag == "!!null":
		*c = nil
		return nil
	case value.Kind != yaml.SequenceNode:
		return fmt.Errorf("%w: category order must be a sequence", ErrInvalid)
	case len(value.Content) == 0:
		*c = []string{}
		return nil
	}

	if value.Content[0].Kind == yaml.MappingNode {
		var pairs []struct {
			Name  string `yaml:"name"`
			Order int    `yaml:"order"`
		}
		if err := value.Decode(&pairs); err != nil {
			return fmt.Errorf("%w: category order entries must be {name, order} pairs", ErrInvalid)
		}
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Order < pairs[j].Order })
		names := make([]string, len(pairs))
		for i, p := range pairs {
			names[i] = p.Name
		}
		*c = names
		return nil
	}

	var names []string
	if err := value.Decode(&names); err != nil {
		return fmt.Errorf("%w: category order must be a sequence of names", ErrInvalid)
	}
	*c = names
	return nil
}
