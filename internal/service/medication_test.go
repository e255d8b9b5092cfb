package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimesForFrequency(t *testing.T) {
	assert.Equal(t, []string{"09:00"}, TimesForFrequency("1x"))
	assert.Equal(t, []string{"09:00", "21:00"}, TimesForFrequency("2x"))
	assert.Equal(t, []string{"08:00", "14:00", "20:00"}, TimesForFrequency("3x"))
	assert.Nil(t, TimesForFrequency("weekly"))
	assert.Nil(t, TimesForFrequency(""))
}

func TestTimesForFrequency_ReturnsCopy(t *testing.T) {
	times := TimesForFrequency("2x")
	times[0] = "00:00"

	assert.Equal(t, []string{"09:00", "21:00"}, TimesForFrequency("2x"))
}

func TestNormalizeTimes_SortsAndValidates(t *testing.T) {
	times, err := normalizeTimes([]string{"21:00", "09:00", "14:30"})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "14:30", "21:00"}, times)
}

func TestNormalizeTimes_RejectsBadValues(t *testing.T) {
	for _, bad := range []string{"9:00", "24:00", "12:60", "noon", ""} {
		_, err := normalizeTimes([]string{bad})
		assert.Error(t, err, "value %q", bad)
	}

	_, err := normalizeTimes(nil)
	assert.Error(t, err)
}
