package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"(13) 99155-0539":   "13991550539",
		"13991550539":       "13991550539",
		"+55 13 99155 0539": "5513991550539",
		" 13.99155.0539 ":   "13991550539",
	}
	for raw, want := range cases {
		got, err := NormalizePhone(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := NormalizePhone("()-- ")
	assert.ErrorIs(t, err, ErrEmptyPhone)
}

func TestParseBirthdate(t *testing.T) {
	got, err := ParseBirthdate("04/07/2000")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2000, time.July, 4, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseBirthdate("4/7/2000")
	require.NoError(t, err)
	assert.True(t, SameDay(got, time.Date(2000, time.July, 4, 0, 0, 0, 0, time.UTC)))
}

func TestParseBirthdateRejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"04-07-2000",
		"04.07.2000",
		"2000/07/04",
		"2000-07-04",
		"aa/bb/cccc",
		"04/07/00",
		"31/02/2000",
		"04/13/2000",
	} {
		_, err := ParseBirthdate(raw)
		assert.ErrorIs(t, err, ErrInvalidBirthdate, raw)
	}
}
