package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shipmk/internal/core/domain"
)

func resolved(t *testing.T, layers ...map[string]string) *domain.VarSet {
	t.Helper()
	vs := domain.NewVarSet(layers...)
	require.NoError(t, vs.Resolve())
	return vs
}

func TestVarSet_Precedence(t *testing.T) {
	builtin := map[string]string{"DOCKER": "podman", "IMGPATH": "."}
	file := map[string]string{"DOCKER": "docker"}
	env := map[string]string{"DOCKER": "nerdctl"}
	overrides := map[string]string{"DOCKER": "buildah"}

	tests := []struct {
		name   string
		layers []map[string]string
		want   string
	}{
		{"builtin only", []map[string]string{builtin}, "podman"},
		{"file over builtin", []map[string]string{builtin, file}, "docker"},
		{"env over file", []map[string]string{builtin, file, env}, "nerdctl"},
		{"override over env", []map[string]string{builtin, file, env, overrides}, "buildah"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := resolved(t, tt.layers...)
			assert.Equal(t, tt.want, vs.Expand("$(DOCKER)"))
		})
	}
}

func TestVarSet_Expand(t *testing.T) {
	vs := resolved(t,
		map[string]string{
			"DOCKER":  "podman",
			"IMGTAG":  "registry.local/app:latest",
			"CMDLINE": "$(DOCKER) push $(IMGTAG)",
		},
	)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"single reference", "$(DOCKER) build", "podman build"},
		{"multiple references", "$(DOCKER) push $(IMGTAG)", "podman push registry.local/app:latest"},
		{"nested definition", "$(CMDLINE)", "podman push registry.local/app:latest"},
		{"undefined expands empty", "a$(NOPE)b", "ab"},
		{"escaped dollar", "$$(DOCKER)", "$(DOCKER)"},
		{"bare dollar", "price: 5$", "price: 5$"},
		{"dollar before word", "$PATH", "$PATH"},
		{"unterminated reference", "$(DOCKER", "$(DOCKER"},
		{"empty reference", "a$()b", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vs.Expand(tt.in))
		})
	}
}

func TestVarSet_Resolve_Cycle(t *testing.T) {
	vs := domain.NewVarSet(map[string]string{
		"A": "$(B)",
		"B": "$(A)",
	})

	err := vs.Resolve()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrVariableCycle), "expected ErrVariableCycle, got %v", err)
}

func TestVarSet_Resolve_SelfReference(t *testing.T) {
	vs := domain.NewVarSet(map[string]string{"A": "x$(A)"})

	err := vs.Resolve()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrVariableCycle))
}

func TestVarSet_Lookup(t *testing.T) {
	vs := resolved(t, map[string]string{"DOCKER": "podman", "FULL": "$(DOCKER) build"})

	val, ok := vs.Lookup("FULL")
	require.True(t, ok)
	assert.Equal(t, "podman build", val)

	_, ok = vs.Lookup("NOPE")
	assert.False(t, ok)
}

func TestVarSet_Names(t *testing.T) {
	vs := domain.NewVarSet(
		map[string]string{"B": "1", "A": "2"},
		map[string]string{"A": "3", "C": "4"},
	)

	assert.Equal(t, []string{"A", "B", "C"}, vs.Names())
}

func TestVarSet_NilLayers(t *testing.T) {
	vs := resolved(t, nil, map[string]string{"X": "1"}, nil)
	assert.Equal(t, "1", vs.Expand("$(X)"))
}
