package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fjacquet/pain001/internal/validation"
)

func TestUUIDGenerator(t *testing.T) {
	gen := Default()
	first := gen.NewID()
	second := gen.NewID()

	assert.Len(t, first, 32)
	assert.NotContains(t, first, "-")
	assert.NotEqual(t, first, second)
}

func TestNewUETR(t *testing.T) {
	assert.True(t, validation.IsUUIDv4(NewUETR()))
}

func TestSequence(t *testing.T) {
	seq := NewSequence("TX-")
	assert.Equal(t, "TX-0001", seq.NewID())
	assert.Equal(t, "TX-0002", seq.NewID())

	wide := &Sequence{Prefix: "M", Width: 6}
	assert.Equal(t, "M000001", wide.NewID())
}

func TestGeneratorFunc(t *testing.T) {
	var gen Generator = GeneratorFunc(func() string { return "fixed" })
	assert.Equal(t, "fixed", gen.NewID())
}
