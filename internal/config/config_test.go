package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOffsetGrammar(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"5", 5000},
		{"1:02", 62000},
		{"01:02:03", 3723000},
		{"-01:02:03", -3723000},
		{"+1:00", 60000},
		{"0.5", 500},
		{"-0.123", -123},
	}
	for _, c := range cases {
		got, err := ParseOffset(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseOffsetRejectsTooManyFields(t *testing.T) {
	_, err := ParseOffset("1:2:3:4")
	assert.Error(t, err)
}

func TestValidateRejectsOutOfRangeFields(t *testing.T) {
	cfg := Default()
	cfg.OffsetMs = 86400000
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.DUT1Ms = 1000
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Channels = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Channels = 1024
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsDefault(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
