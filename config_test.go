package tap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	type input struct {
		yaml string
	}

	type expected struct {
		fails   bool
		enabled *bool
		events  map[string]bool
		level   string
	}

	boolPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "full config",
			input: input{yaml: `
enabled: true
log:
  level: warn
events:
  calc.add: true
  db.query: false
`},
			expected: expected{
				enabled: boolPtr(true),
				events:  map[string]bool{"calc.add": true, "db.query": false},
				level:   "warn",
			},
		},
		{
			name:     "absent enabled stays nil",
			input:    input{yaml: "events:\n  a: true\n"},
			expected: expected{events: map[string]bool{"a": true}},
		},
		{
			name:     "unknown field rejected",
			input:    input{yaml: "enabeld: true\n"},
			expected: expected{fails: true},
		},
		{
			name:     "malformed yaml rejected",
			input:    input{yaml: "events: [\n"},
			expected: expected{fails: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(strings.NewReader(tt.input.yaml))

			if tt.expected.fails {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.enabled, cfg.Enabled)
			assert.Equal(t, tt.expected.events, cfg.Events)
			assert.Equal(t, tt.expected.level, cfg.Log.Level)
		})
	}
}

func TestAuditor_ApplyConfig(t *testing.T) {
	a := New()

	_, err := a.Wrap("on", okTarget(nil))
	require.NoError(t, err)
	_, err = a.Wrap("off", okTarget(nil))
	require.NoError(t, err)

	enabled := true
	cfg := &Config{
		Enabled: &enabled,
		Events:  map[string]bool{"on": true, "off": false},
	}

	require.NoError(t, a.ApplyConfig(cfg))

	assert.True(t, a.Enabled())

	onEvent, _ := a.Registry().Lookup("on")
	offEvent, _ := a.Registry().Lookup("off")
	assert.True(t, onEvent.Enabled())
	assert.False(t, offEvent.Enabled())
}

func TestAuditor_ApplyConfig_UnknownEvents(t *testing.T) {
	a := New()

	_, err := a.Wrap("known", okTarget(nil))
	require.NoError(t, err)

	cfg := &Config{
		Events: map[string]bool{"known": false, "ghost": true, "phantom": true},
	}

	err = a.ApplyConfig(cfg)

	assert.ErrorIs(t, err, ErrUnknownEvent)
	assert.Contains(t, err.Error(), "ghost")
	assert.Contains(t, err.Error(), "phantom")

	// Known toggles applied despite the failures.
	known, _ := a.Registry().Lookup("known")
	assert.False(t, known.Enabled())
}

func TestAuditor_ApplyConfig_BadLogLevel(t *testing.T) {
	a := New()

	err := a.ApplyConfig(&Config{Log: LogConfig{Level: "shouty"}})

	assert.Error(t, err)
}

func TestAuditor_ApplyConfig_EmptyLeavesStateAlone(t *testing.T) {
	a := New()
	a.SetEnabled(true)

	require.NoError(t, a.ApplyConfig(&Config{}))

	assert.True(t, a.Enabled())
}
