package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorConstructors(t *testing.T) {
	assert.True(t, IsValidation(Validation("bad input: %d", 42)))
	assert.True(t, IsComputation(Computation("log of %f", -1.0)))
	assert.True(t, IsConfiguration(Configuration("missing section")))
	assert.True(t, IsNotFound(NotFound("gone")))
	assert.True(t, IsAlreadyExists(AlreadyExists("dupe")))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(New("plain")))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(fmt.Errorf("foreign")))
}

func TestWrapPreservesType(t *testing.T) {
	inner := Computation("division by zero")
	wrapped := Wrapf(inner, "exposure %s", "exp-1")

	assert.True(t, IsComputation(wrapped), "wrapping must keep the original classification")
	assert.Contains(t, wrapped.Error(), "exp-1")
	assert.Contains(t, wrapped.Error(), "division by zero")

	foreign := Wrap(fmt.Errorf("io failure"), "reading config")
	assert.Equal(t, ErrorTypeUnknown, TypeOf(foreign))

	assert.Nil(t, Wrap(nil, "nothing"))
}
