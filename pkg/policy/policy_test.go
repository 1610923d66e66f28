package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeconds_DefaultTable(t *testing.T) {
	cases := []struct {
		count uint
		want  int
	}{
		{0, 10}, {4, 10},
		{5, 20}, {9, 20},
		{10, 30}, {14, 30},
		{15, 40}, {16, 40}, {1000, 40},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Seconds(tc.count), "count %d", tc.count)
	}
}

func TestSeconds_Monotonic(t *testing.T) {
	p := Default()
	prev := p.Seconds(0)
	for c := uint(1); c <= 100; c++ {
		got := p.Seconds(c)
		assert.GreaterOrEqual(t, got, prev, "count %d", c)
		prev = got
	}
}

func TestAllocate_BaseExtraSplit(t *testing.T) {
	p := Default()

	t.Run("seven vehicles", func(t *testing.T) {
		a := p.Allocate(7)
		assert.Equal(t, Allocation{Base: 10, Extra: 10}, a)
		assert.Equal(t, 20, a.Total())
	})

	t.Run("sixteen vehicles", func(t *testing.T) {
		a := p.Allocate(16)
		assert.Equal(t, 10, a.Base)
		assert.Equal(t, 30, a.Extra)
		assert.Equal(t, 40, a.Total())
	})

	t.Run("empty queue", func(t *testing.T) {
		assert.Equal(t, Allocation{Base: 10}, p.Allocate(0))
	})
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	bad := &StepPolicy{
		Base: 0,
		Steps: []Step{
			{MinCount: 5, Extra: 20},
			{MinCount: 5, Extra: 10},
		},
	}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base green must be positive")
	assert.Contains(t, err.Error(), "min_count 5 must be greater than 5")
	assert.Contains(t, err.Error(), "extra 10 is below")
}
