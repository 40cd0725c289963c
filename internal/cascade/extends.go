package cascade

import (
	"errors"
	"fmt"
)

// ErrExtendsCycle is returned when rules extend each other in a loop.
var ErrExtendsCycle = errors.New("cyclic rule extension")

// Rule is a table entry as declared, before inheritance is applied.
type Rule struct {
	Key     Key
	Extends []Key
	Props   Props
}

type ruleState struct {
	rule      Rule
	resolving bool
	resolved  bool
	props     Props
}

// Build resolves rule inheritance and returns the final table. A rule first
// takes every property of the rules it extends, in order, then its own
// properties on top. Rules declared twice are merged, later wins.
func Build(rules []Rule) (Table, error) {
	states := make(map[Key]*ruleState, len(rules))
	order := make([]Key, 0, len(rules))
	for _, r := range rules {
		if st, ok := states[r.Key]; ok {
			st.rule.Extends = append(st.rule.Extends, r.Extends...)
			st.rule.Props = Overlay(st.rule.Props, r.Props)
			continue
		}
		states[r.Key] = &ruleState{rule: Rule{Key: r.Key, Extends: r.Extends, Props: r.Props.Clone()}}
		order = append(order, r.Key)
	}

	table := make(Table, len(states))
	for _, key := range order {
		props, err := resolveRule(states, key)
		if err != nil {
			return nil, err
		}
		table[key] = props
	}
	return table, nil
}

func resolveRule(states map[Key]*ruleState, key Key) (Props, error) {
	st, ok := states[key]
	if !ok {
		return nil, fmt.Errorf("rule %s extends unknown rule", key)
	}
	if st.resolved {
		return st.props, nil
	}
	if st.resolving {
		return nil, fmt.Errorf("%w involving %s", ErrExtendsCycle, key)
	}

	st.resolving = true
	defer func() { st.resolving = false }()

	merged := Props{}
	for _, base := range st.rule.Extends {
		baseProps, err := resolveRule(states, base)
		if err != nil {
			return nil, fmt.Errorf("resolving base %s of %s: %w", base, key, err)
		}
		merged = Overlay(merged, baseProps)
	}
	st.props = Overlay(merged, st.rule.Props)
	st.resolved = true
	return st.props, nil
}
