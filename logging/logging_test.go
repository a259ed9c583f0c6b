package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/njob-manager/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, logging.ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, logging.ParseLevel(" WARN "))
	assert.Equal(t, logrus.WarnLevel, logging.ParseLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, logging.ParseLevel(""))
	assert.Equal(t, logrus.InfoLevel, logging.ParseLevel("chatty"))
}

func TestNewWithOutput_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithOutput("info", &buf)

	log.Debug("hidden")
	log.WithField("workplace_id", "wp-1").Info("saved")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "only the info line is written")
	assert.Equal(t, "saved", line["msg"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "wp-1", line["workplace_id"])
}
