package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_Deterministic(t *testing.T) {
	type params struct {
		Page   int    `json:"page"`
		Search string `json:"search,omitempty"`
	}

	a := Key("licenses/list", params{Page: 1, Search: "cafe"})
	b := Key("licenses/list", params{Page: 1, Search: "cafe"})
	assert.Equal(t, a, b)

	c := Key("licenses/list", params{Page: 2, Search: "cafe"})
	assert.NotEqual(t, a, c)
}

func TestKey_MapOrderIndependent(t *testing.T) {
	a := Key("op", map[string]any{"x": 1, "y": "z"})
	b := Key("op", map[string]any{"y": "z", "x": 1})
	assert.Equal(t, a, b)
}

func TestKey_StructAndMapEquivalent(t *testing.T) {
	type args struct {
		ID string `json:"id"`
	}
	assert.Equal(t,
		Key("licenses/get", args{ID: "lic_1"}),
		Key("licenses/get", map[string]string{"id": "lic_1"}))
}

func TestKey_NilArgs(t *testing.T) {
	assert.Equal(t, "stats/dashboard", Key("stats/dashboard", nil))
}

func TestKey_DistinguishesOperations(t *testing.T) {
	assert.NotEqual(t, Key("a", map[string]int{"p": 1}), Key("b", map[string]int{"p": 1}))
}
