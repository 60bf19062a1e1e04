package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSimConfig_FieldEquivalence(t *testing.T) {
	got := NewSimConfig(100, 12, 7, true)
	want := SimConfig{
		NumRuns:     100,
		MaxSteps:    12,
		Seed:        7,
		RecordSteps: true,
	}
	assert.Equal(t, want, got)
}

func TestSimConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SimConfig
		wantErr bool
	}{
		{"defaults", NewSimConfig(DefaultNumRuns, DefaultMaxSteps, DefaultSeed, false), false},
		{"single run single step", NewSimConfig(1, 1, 0, false), false},
		{"zero runs", NewSimConfig(0, 10, 1, false), true},
		{"negative runs", NewSimConfig(-5, 10, 1, false), true},
		{"zero steps", NewSimConfig(10, 0, 1, false), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
