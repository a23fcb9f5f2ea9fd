package check

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshgregory42/f1-analysis-2021/pkg/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "session.yml")
	require.NoError(t, os.WriteFile(fn, []byte(content), 0o644))
	return fn
}

func TestCheckCompatibility_dataset(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{"supported", "schemaVersion: 1.4.0\nlaps: []\n", "Compatible         : true", false},
		{"unsupported", "schemaVersion: 2.0.0\nlaps: []\n", "Compatible         : false", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			cfg := &config.CliArgs{Dataset: writeFile(t, tt.content)}
			err := checkCompatibility(context.Background(), cfg, buf)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkCompatibility() error = %v, wantErr %v", err, tt.wantErr)
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestCheckCompatibility_noSource(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, checkCompatibility(context.Background(), &config.CliArgs{}, buf))
	assert.Contains(t, buf.String(), "minisector version")
}
