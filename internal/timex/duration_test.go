package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_JSON(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{`"1m"`, time.Minute, false},
		{`"250ms"`, 250 * time.Millisecond, false},
		{`1000000000`, time.Second, false},
		{`null`, 0, false},
		{`"soon"`, 0, true},
		{`"-1s"`, 0, true},
		{`true`, 0, true},
	}
	for _, tc := range tests {
		var d Duration
		err := json.Unmarshal([]byte(tc.in), &d)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, d.Duration, tc.in)
	}
}

func TestDuration_YAML(t *testing.T) {
	var cfg struct {
		TTL   Duration `yaml:"ttl"`
		Prune Duration `yaml:"prune"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("ttl: 2m\nprune: 1000\n"), &cfg))
	assert.Equal(t, 2*time.Minute, cfg.TTL.Duration)
	assert.Equal(t, 1000*time.Nanosecond, cfg.Prune.Duration)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 90 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
