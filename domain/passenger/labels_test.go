package passenger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurvivedLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"1", LabelSurvived, true},
		{"0", LabelPerished, true},
		{" Yes ", LabelSurvived, true},
		{"no", LabelPerished, true},
		{"TRUE", LabelSurvived, true},
		{"2", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := SurvivedLabel(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSexLabel(t *testing.T) {
	got, ok := SexLabel("male")
	assert.True(t, ok)
	assert.Equal(t, "Male", got)

	got, ok = SexLabel("FEMALE")
	assert.True(t, ok)
	assert.Equal(t, "Female", got)

	_, ok = SexLabel("  ")
	assert.False(t, ok)
}

func TestParseClass(t *testing.T) {
	for _, in := range []string{"1", "2", "3", "3.0"} {
		_, ok := ParseClass(in)
		assert.True(t, ok, in)
	}
	for _, in := range []string{"0", "4", "first", "1.5", ""} {
		_, ok := ParseClass(in)
		assert.False(t, ok, in)
	}
}
