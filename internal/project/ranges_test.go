package project

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	anerrors "github.com/poikilos/anewcommit/internal/errors"
)

func indices(rs []Range) [][]int {
	out := make([][]int, len(rs))
	for i, r := range rs {
		out[i] = r.Indices()
	}
	return out
}

func TestRanges(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		want   [][]int
	}{
		{"mixed", "VVPVOVV", [][]int{{0}, {1}, {2, 3, 4}, {5}, {6}}},
		{"single_version", "V", [][]int{{0}}},
		{"post_and_no_op_stay_behind", "VONV", [][]int{{0, 1, 2}, {3}}},
		{"split_before_first_pre_process", "VOPNPV", [][]int{{0, 1}, {2, 3, 4, 5}}},
		{"leading_transitions_to_first_version", "NPV", [][]int{{0, 1, 2}}},
		{"trailing_transitions_to_last_version", "VVFO", [][]int{{0}, {1, 2, 3}}},
		{"for_every_source_follows", "VFV", [][]int{{0, 1}, {2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := build(t, tt.layout)
			assert.Equal(t, tt.want, indices(p.Ranges()))
		})
	}
}

func TestRangesPartition(t *testing.T) {
	p := build(t, "NVOPVPNVO")
	rs := p.Ranges()
	require.NotEmpty(t, rs)

	assert.Equal(t, 0, rs[0].Lo)
	assert.Equal(t, p.Len(), rs[len(rs)-1].Hi)
	for i := 1; i < len(rs); i++ {
		assert.Equal(t, rs[i-1].Hi, rs[i].Lo)
	}
	for _, r := range rs {
		assert.True(t, r.Contains(r.Version))
		a, err := p.At(r.Version)
		require.NoError(t, err)
		assert.True(t, a.IsVersion())
	}
}

func TestRangesNoVersion(t *testing.T) {
	p := build(t, "NPO")
	assert.Empty(t, p.Ranges())

	_, _, err := p.Affected(1)
	assert.True(t, errors.Is(err, anerrors.ErrNoVersion))

	assert.Empty(t, build(t, "").Ranges())
}

func TestAffected(t *testing.T) {
	p := build(t, "VVPVOVV")

	tests := []struct {
		index   int
		version int
	}{
		{0, 0}, {1, 1}, {2, 3}, {3, 3}, {4, 3}, {5, 5}, {6, 6},
	}
	for _, tt := range tests {
		v, r, err := p.Affected(tt.index)
		require.NoError(t, err)
		assert.Equal(t, tt.version, v, "index %d", tt.index)
		assert.True(t, r.Contains(tt.index))
	}

	_, _, err := p.Affected(7)
	var ie *anerrors.IndexError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "affected", ie.Op)

	_, _, err = p.Affected(-1)
	assert.True(t, errors.Is(err, anerrors.ErrIndexOutOfRange))
}

func TestRangeHelpers(t *testing.T) {
	r := Range{Lo: 2, Hi: 5, Version: 3}
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{2, 3, 4}, r.Indices())
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(5))
	assert.Empty(t, Range{Lo: 1, Hi: 1}.Indices())
}
