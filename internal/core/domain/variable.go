package domain

import (
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// VarSet resolves layered variable definitions with $(NAME) references.
// Later layers take precedence over earlier ones; the app layers builtin
// defaults, file definitions, the process environment, and --var overrides
// in that order.
type VarSet struct {
	layers   []map[string]string
	resolved map[string]string
}

// NewVarSet creates a VarSet from precedence-ordered layers. Nil layers are
// permitted and ignored.
func NewVarSet(layers ...map[string]string) *VarSet {
	return &VarSet{layers: layers}
}

// raw returns the highest-precedence unresolved definition of name.
func (vs *VarSet) raw(name string) (string, bool) {
	for i := len(vs.layers) - 1; i >= 0; i-- {
		if val, ok := vs.layers[i][name]; ok {
			return val, true
		}
	}
	return "", false
}

// Names returns every defined variable name in sorted order.
func (vs *VarSet) Names() []string {
	seen := make(map[string]struct{})
	for _, layer := range vs.layers {
		for name := range layer {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve expands every definition and freezes the result. It returns
// ErrVariableCycle when a variable's value refers back to itself, directly
// or through other variables.
func (vs *VarSet) Resolve() error {
	vs.resolved = make(map[string]string)
	visiting := make(map[string]bool)

	for _, name := range vs.Names() {
		if _, err := vs.resolveVar(name, visiting); err != nil {
			return err
		}
	}
	return nil
}

func (vs *VarSet) resolveVar(name string, visiting map[string]bool) (string, error) {
	if val, ok := vs.resolved[name]; ok {
		return val, nil
	}
	if visiting[name] {
		return "", zerr.With(ErrVariableCycle, "variable", name)
	}

	raw, ok := vs.raw(name)
	if !ok {
		// Make semantics: undefined expands to the empty string.
		return "", nil
	}

	visiting[name] = true
	val, err := vs.expand(raw, func(ref string) (string, error) {
		return vs.resolveVar(ref, visiting)
	})
	delete(visiting, name)
	if err != nil {
		return "", err
	}

	vs.resolved[name] = val
	return val, nil
}

// Expand replaces $(NAME) references in s with resolved values. $$ yields a
// literal dollar sign, undefined names expand to the empty string, and an
// unterminated reference is kept as written. Resolve must have been called.
func (vs *VarSet) Expand(s string) string {
	out, _ := vs.expand(s, func(ref string) (string, error) {
		return vs.resolved[ref], nil
	})
	return out
}

// Lookup returns the resolved value of name. Resolve must have been called.
func (vs *VarSet) Lookup(name string) (string, bool) {
	val, ok := vs.resolved[name]
	return val, ok
}

// expand scans s for $(NAME) references, substituting each via lookup.
func (vs *VarSet) expand(s string, lookup func(string) (string, error)) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '$' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '$' {
			b.WriteByte('$')
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '(' {
			end := strings.IndexByte(s[i+2:], ')')
			if end >= 0 {
				name := s[i+2 : i+2+end]
				val, err := lookup(name)
				if err != nil {
					return "", err
				}
				b.WriteString(val)
				i += 2 + end
				continue
			}
		}
		// Bare or unterminated dollar, keep it as written.
		b.WriteByte(s[i])
	}
	return b.String(), nil
}
