package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInit_ParsesLevel(t *testing.T) {
	Init("debug")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	Init("not-a-level")
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}

func TestL_WritesJSON(t *testing.T) {
	Init("info")
	var buf bytes.Buffer
	SetOutput(&buf)

	L().WithField("opportunity_id", "42").Info("одобрено")

	assert.Contains(t, buf.String(), `"opportunity_id":"42"`)
}

func TestL_WithoutInit(t *testing.T) {
	Log = nil
	assert.NotNil(t, L())
}
