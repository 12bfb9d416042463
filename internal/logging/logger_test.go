package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, setup(&buf, true, "warn", "text"))
	assert.Equal(t, logrus.WarnLevel, Logger().GetLevel())

	require.NoError(t, setup(&buf, true, "  ", "text"))
	assert.Equal(t, logrus.InfoLevel, Logger().GetLevel())

	assert.Error(t, setup(&buf, true, "loud", "text"))
	assert.Error(t, setup(&buf, true, "info", "xml"))
}

func TestAutoFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, setup(&buf, false, "info", "auto"))
	GetLogger("test").Info("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "test", line["logName"])
	assert.Equal(t, ProcessId, line["processId"])
	assert.Contains(t, line, "hostname")

	buf.Reset()
	require.NoError(t, setup(&buf, true, "info", "auto"))
	GetLogger("test").Info("hello")
	assert.Contains(t, buf.String(), `msg="hello"`)
	assert.Contains(t, buf.String(), `logName="test"`)
}

func TestHooksNotDuplicated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, setup(&buf, false, "info", "json"))
	require.NoError(t, setup(&buf, false, "info", "json"))
	assert.Len(t, Logger().Hooks[logrus.InfoLevel], 1)
}
