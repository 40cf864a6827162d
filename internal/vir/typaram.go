package vir

import "strings"

// typaramMarker tags the name fragments the fact harvester emits for
// unresolved generic parameters.
const typaramMarker = "__TYPARAM__"

// TyparamSubsts maps encoded generic-parameter name fragments to the
// concrete fragments instantiating them. It is learned by comparing two
// encoded type names fragment by fragment and applied by substring
// replacement, because the engine's predicate naming convention embeds
// generic instantiations into `$`-separated name fragments. This is a
// deliberately narrow device; see ReplacePlace.
type TyparamSubsts struct {
	from []string
	to   []string
}

// LearnTyparamSubsts infers a substitution from a more-generic encoded
// type name to a more-concrete one. The two names are split on `$` and
// compared in lockstep; every differing fragment carrying the typaram
// marker on the generic side is recorded.
func LearnTyparamSubsts(generic, concrete string) TyparamSubsts {
	var s TyparamSubsts
	genericParts := strings.Split(generic, "$")
	concreteParts := strings.Split(concrete, "$")
	n := len(genericParts)
	if len(concreteParts) < n {
		n = len(concreteParts)
	}
	for i := 0; i < n; i++ {
		g, c := genericParts[i], concreteParts[i]
		if g == c || !strings.Contains(g, typaramMarker) {
			continue
		}
		if s.lookup(g) == "" {
			s.from = append(s.from, g)
			s.to = append(s.to, c)
		}
	}
	return s
}

// Apply replaces every learned fragment occurring in name, in the order
// the fragments were learned.
func (s TyparamSubsts) Apply(name string) string {
	for i, from := range s.from {
		name = strings.ReplaceAll(name, from, s.to[i])
	}
	return name
}

// IsEmpty reports whether nothing was learned.
func (s TyparamSubsts) IsEmpty() bool { return len(s.from) == 0 }

func (s TyparamSubsts) lookup(from string) string {
	for i, f := range s.from {
		if f == from {
			return s.to[i]
		}
	}
	return ""
}
