package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func captureLogs(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(level, &buf)
	t.Cleanup(func() { Init("info", nil) })
	buf.Reset()
	return &buf
}

func TestInitWritesJSON(t *testing.T) {
	buf := captureLogs(t, "debug")

	logrus.WithField("user_id", 7).Info("signed up")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "signed up", line["msg"])
	assert.Equal(t, float64(7), line["user_id"])
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestInitUnknownLevel(t *testing.T) {
	captureLogs(t, "loud")
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

func TestGormTraceLogsErrors(t *testing.T) {
	buf := captureLogs(t, "info")
	l := NewGormLogger(logger.Warn)

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO users", 0
	}, errors.New("duplicate key"))

	assert.Contains(t, buf.String(), "SQL error")
	assert.Contains(t, buf.String(), "duplicate key")
}

func TestGormTraceIgnoresRecordNotFound(t *testing.T) {
	buf := captureLogs(t, "info")
	l := NewGormLogger(logger.Warn)

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM users", 0
	}, logger.ErrRecordNotFound)

	assert.Empty(t, strings.TrimSpace(buf.String()))
}

func TestGormTraceSilent(t *testing.T) {
	buf := captureLogs(t, "info")
	l := NewGormLogger(logger.Warn).LogMode(logger.Silent)

	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)

	assert.Empty(t, strings.TrimSpace(buf.String()))
}
