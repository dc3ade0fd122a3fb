package database

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SlowQueryThreshold is the duration above which queries are logged at warn.
const SlowQueryThreshold = 200 * time.Millisecond

// zapGormLogger routes GORM's logging through zap.
type zapGormLogger struct {
	log   *zap.SugaredLogger
	level gormlogger.LogLevel
}

// NewGormLogger returns a gorm logger that writes to log.
func NewGormLogger(log *zap.SugaredLogger, level gormlogger.LogLevel) gormlogger.Interface {
	return &zapGormLogger{log: log, level: level}
}

func (l *zapGormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &zapGormLogger{log: l.log, level: level}
}

func (l *zapGormLogger) Info(_ context.Context, s string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Infof(s, args...)
	}
}

func (l *zapGormLogger) Warn(_ context.Context, s string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warnf(s, args...)
	}
}

func (l *zapGormLogger) Error(_ context.Context, s string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Errorf(s, args...)
	}
}

func (l *zapGormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []interface{}{"sql", sql, "rows", rows, "duration_ms", elapsed.Milliseconds()}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		l.log.Errorw("gorm query error", append(fields, "error", err)...)
	case elapsed > SlowQueryThreshold && l.level >= gormlogger.Warn:
		l.log.Warnw("gorm slow query", fields...)
	case l.level >= gormlogger.Info:
		l.log.Debugw("gorm query", fields...)
	}
}
