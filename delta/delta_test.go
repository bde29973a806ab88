package delta

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/impact/errs"
)

func TestEncode_Example(t *testing.T) {
	s, err := Encode([]int64{200, 300})
	require.NoError(t, err)
	require.Equal(t, int64(200), s.Base)
	require.Equal(t, []int64{100}, s.Deltas)
	require.Equal(t, []int64{200, 300}, Decode(s))
}

func TestEncode_Empty(t *testing.T) {
	_, err := Encode(nil)
	require.ErrorIs(t, err, errs.ErrEmptySeries)

	_, err = Encode([]int64{})
	require.ErrorIs(t, err, errs.ErrEmptySeries)
}

func TestEncode_Singleton(t *testing.T) {
	s, err := Encode([]int64{42})
	require.NoError(t, err)
	require.Empty(t, s.Deltas)
	require.Equal(t, 1, s.Len())
	require.Equal(t, []int64{42}, Decode(s))
}

func TestEncode_ConstantSeriesYieldsZeroDeltas(t *testing.T) {
	s, err := Encode([]int64{150, 150, 150, 150, 150})
	require.NoError(t, err)
	require.Equal(t, []int64{0, 0, 0, 0}, s.Deltas)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		seq  []int64
	}{
		{"growing", []int64{100, 150, 225, 400}},
		{"shrinking", []int64{500, 480, 300, 1}},
		{"mixed", []int64{100, 80, 80, 120, 90}},
		{"negative values", []int64{-5, 3, -10}},
		{"large jumps", []int64{1, 1 << 40, 2, 1 << 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Encode(tt.seq)
			require.NoError(t, err)
			require.Equal(t, len(tt.seq), s.Len())
			require.Equal(t, tt.seq, Decode(s))
			require.Equal(t, tt.seq[len(tt.seq)-1], s.Last())
		})
	}
}

func TestRoundTrip_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for range 200 {
		n := 1 + rng.Intn(40)
		seq := make([]int64, n)
		for i := range seq {
			seq[i] = 1 + rng.Int63n(100000)
		}

		s, err := Encode(seq)
		require.NoError(t, err)
		require.Equal(t, seq, Decode(s))
	}
}

func TestSeries_Append(t *testing.T) {
	s, err := Encode([]int64{10})
	require.NoError(t, err)

	s.Append(15)
	s.Append(12)

	want, err := Encode([]int64{10, 15, 12})
	require.NoError(t, err)
	require.True(t, s.Equal(want))
	require.Equal(t, []int64{5, -3}, s.Deltas)
}

func TestSeries_AllIsRestartable(t *testing.T) {
	s := Series{Base: 1, Deltas: []int64{1, 1}}

	for range 2 {
		var got []int64
		for v := range s.All() {
			got = append(got, v)
		}
		require.Equal(t, []int64{1, 2, 3}, got)
	}

	// early termination
	count := 0
	for range s.All() {
		count++
		break
	}
	require.Equal(t, 1, count)
}

func TestSeries_Equal(t *testing.T) {
	a := Series{Base: 1, Deltas: []int64{2}}
	require.True(t, a.Equal(Series{Base: 1, Deltas: []int64{2}}))
	require.False(t, a.Equal(Series{Base: 2, Deltas: []int64{2}}))
	require.False(t, a.Equal(Series{Base: 1, Deltas: []int64{2, 0}}))
	require.False(t, a.Equal(Series{Base: 1, Deltas: []int64{3}}))
}
