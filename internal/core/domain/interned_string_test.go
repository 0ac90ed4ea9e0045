package domain_test

import (
	"encoding/json"
	"testing"

	"go.trai.ch/shipmk/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	a := domain.NewInternedString("build")
	b := domain.NewInternedString("build")
	c := domain.NewInternedString("push")

	if a != b {
		t.Error("equal strings should intern to equal handles")
	}
	if a == c {
		t.Error("different strings should intern to different handles")
	}
	if a.String() != "build" {
		t.Errorf("String() = %q, want %q", a.String(), "build")
	}
}

func TestInternedString_Zero(t *testing.T) {
	var zero domain.InternedString
	if zero.String() != "" {
		t.Errorf("zero value String() = %q, want empty", zero.String())
	}
}

func TestInternedString_JSON(t *testing.T) {
	type wrapper struct {
		Name domain.InternedString `json:"name"`
	}

	data, err := json.Marshal(wrapper{Name: domain.NewInternedString("build")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"name":"build"}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var decoded wrapper
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Name.String() != "build" {
		t.Errorf("round trip gave %q", decoded.Name.String())
	}
}
