package execctx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	before := time.Now()
	c := New()

	assert.False(t, c.Now().Before(before))
	assert.Equal(t, Online, c.Environment())
	assert.False(t, c.IsQuery())
	_, ok := c.Flag("anything")
	assert.False(t, ok)
}

func TestWith_DoesNotMutateOriginal(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	base := New(WithNow(now), WithFlag("a", "1"))

	derived := base.With(WithEnvironment(Query), WithFlag("a", "2"))

	v, _ := base.Flag("a")
	assert.Equal(t, "1", v)
	assert.Equal(t, Online, base.Environment())

	v, _ = derived.Flag("a")
	assert.Equal(t, "2", v)
	assert.True(t, derived.IsQuery())
	assert.Equal(t, now, derived.Now())
	assert.Equal(t, "query", derived.Environment().String())
}
