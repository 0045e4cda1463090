package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New(Options{Level: "debug"}).GetLevel())
	assert.Equal(t, logrus.InfoLevel, New(Options{Level: "nonsense"}).GetLevel())
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	log := New(Options{Level: "info", File: path, JSON: true})
	log.WithField("room_id", 7).Info("reserved")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"room_id":7`)
	assert.Contains(t, string(data), `"msg":"reserved"`)
}
