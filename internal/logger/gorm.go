package logger

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger routes GORM's log output to logrus
type GormLogger struct {
	LogLevel logger.LogLevel
}

func NewGormLogger(level logger.LogLevel) *GormLogger {
	return &GormLogger{LogLevel: level}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &GormLogger{LogLevel: level}
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Info {
		logrus.WithContext(ctx).WithField("data", data).Info(msg)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Warn {
		logrus.WithContext(ctx).WithField("data", data).Warn(msg)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Error {
		logrus.WithContext(ctx).WithField("data", data).Error(msg)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := logrus.WithContext(ctx).WithFields(logrus.Fields{
		"sql":     sql,
		"latency": elapsed.String(),
		"rows":    rows,
	})

	switch {
	case err != nil && !errors.Is(err, logger.ErrRecordNotFound) && l.LogLevel >= logger.Error:
		entry.WithError(err).Error("SQL error")
	case elapsed > slowQueryThreshold && l.LogLevel >= logger.Warn:
		entry.Warn("SQL slow query")
	case l.LogLevel >= logger.Info:
		entry.Debug("SQL")
	}
}
