package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"10:30", 630},
		{"23:59", 1439},
	}
	for _, tc := range cases {
		got, err := ParseTime(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseTime_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"10",
		"10:00:00",
		"24:00",
		"-1:30",
		"10:60",
		"10:-5",
		"ab:cd",
		"10:3x",
	} {
		_, err := ParseTime(in)
		require.Error(t, err, in)
		assert.Equal(t, CodeInvalidFormat, ErrorCode(err), in)
	}
}

func TestFormatTime_RoundTrip(t *testing.T) {
	for m := 0; m < 1440; m++ {
		got, err := ParseTime(FormatTime(m))
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
}

func TestFormatTime_WrapsPastMidnight(t *testing.T) {
	assert.Equal(t, "00:30", FormatTime(1470))
	assert.Equal(t, "23:30", FormatTime(-30))
}
