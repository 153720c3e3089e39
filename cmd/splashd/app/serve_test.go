package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overtext/splash-server/internal/config"
)

func TestResolveAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flagAddr string
		cfg      *config.Config
		want     string
	}{
		{
			name:     "flag wins over config",
			flagAddr: ":9090",
			cfg:      &config.Config{Server: config.ServerConfig{Address: ":7070"}},
			want:     ":9090",
		},
		{
			name:     "config used when flag empty",
			flagAddr: "",
			cfg:      &config.Config{Server: config.ServerConfig{Address: ":7070"}},
			want:     ":7070",
		},
		{
			name:     "default when both empty",
			flagAddr: "",
			cfg:      &config.Config{},
			want:     ":8080",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, resolveAddress(tt.flagAddr, tt.cfg))
		})
	}
}

func TestServeCommandFlags(t *testing.T) {
	t.Parallel()

	require.NotNil(t, serveCmd.Flags().Lookup("address"))
	require.NotNil(t, serveCmd.Flags().Lookup("config"))
	require.NotNil(t, serveCmd.Flags().Lookup("metrics"))

	// config is required
	annotations := serveCmd.Flags().Lookup("config").Annotations
	assert.Contains(t, annotations, cobraRequiredAnnotation)
}

// cobraRequiredAnnotation is the annotation key cobra sets for required flags.
const cobraRequiredAnnotation = "cobra_annotation_bash_completion_one_required_flag"
