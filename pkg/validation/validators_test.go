package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email,omitempty" validate:"required"`
	Comment string `validate:"required"`
}

func TestMissingFields(t *testing.T) {
	v := New()

	err := v.Struct(sample{Email: "a@b.c"})
	assert.Error(t, err)
	assert.Equal(t, []string{"name", "Comment"}, MissingFields(err))

	assert.NoError(t, v.Struct(sample{Name: " ", Email: "x", Comment: "y"}), "whitespace counts as present")
	assert.Nil(t, MissingFields(errors.New("boom")))
}
