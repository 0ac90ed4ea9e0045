package domain

// ExpandGraph returns a copy of g with all variable references in commands,
// inputs, per-target environment values, and working directories expanded
// against vs. The result is validated and ready for execution; the source
// graph is left untouched.
func ExpandGraph(g *Graph, vs *VarSet) (*Graph, error) {
	out := NewGraph()

	for t := range g.Walk() {
		expanded := t

		if len(t.Commands) > 0 {
			expanded.Commands = make([]string, len(t.Commands))
			for i, cmd := range t.Commands {
				expanded.Commands[i] = vs.Expand(cmd)
			}
		}

		if len(t.Inputs) > 0 {
			expanded.Inputs = make([]InternedString, len(t.Inputs))
			for i, input := range t.Inputs {
				expanded.Inputs[i] = NewInternedString(vs.Expand(input.String()))
			}
		}

		if len(t.Environment) > 0 {
			expanded.Environment = make(map[string]string, len(t.Environment))
			for k, v := range t.Environment {
				expanded.Environment[k] = vs.Expand(v)
			}
		}

		if wd := t.WorkingDir.String(); wd != "" {
			expanded.WorkingDir = NewInternedString(vs.Expand(wd))
		}

		if err := out.AddTarget(&expanded); err != nil {
			return nil, err
		}
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
