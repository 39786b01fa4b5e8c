package database

import (
	"context"
	"errors"
	"time"

	"github.com/go-arcade/quizhub/pkg/log"
	"gorm.io/gorm/logger"
)

// GormLoggerAdapter forwards gorm output to the global zap logger.
type GormLoggerAdapter struct {
	Config logger.Config
	Level  logger.LogLevel
}

func NewGormLoggerAdapter(config logger.Config) *GormLoggerAdapter {
	return &GormLoggerAdapter{Config: config, Level: config.LogLevel}
}

func (l *GormLoggerAdapter) LogMode(level logger.LogLevel) logger.Interface {
	n := *l
	n.Level = level
	return &n
}

func (l *GormLoggerAdapter) Info(_ context.Context, msg string, data ...any) {
	if l.Level >= logger.Info {
		log.Infof(msg, data...)
	}
}

func (l *GormLoggerAdapter) Warn(_ context.Context, msg string, data ...any) {
	if l.Level >= logger.Warn {
		log.Warnf(msg, data...)
	}
}

func (l *GormLoggerAdapter) Error(_ context.Context, msg string, data ...any) {
	if l.Level >= logger.Error {
		log.Errorf(msg, data...)
	}
}

func (l *GormLoggerAdapter) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin).Seconds()
	sql, rows := fc()

	switch {
	case err != nil && l.Level >= logger.Error &&
		(!errors.Is(err, logger.ErrRecordNotFound) || !l.Config.IgnoreRecordNotFoundError):
		log.Errorf("`%s` [rows: %d, elapsed: %.5f], err: %v", sql, rows, elapsed, err)
	case l.Config.SlowThreshold != 0 && elapsed > l.Config.SlowThreshold.Seconds() && l.Level >= logger.Warn:
		log.Warnf("`%s` [rows: %d, elapsed: %.5f] slow sql", sql, rows, elapsed)
	case l.Level == logger.Info:
		log.Debugf("`%s` [rows: %d, elapsed: %.5f]", sql, rows, elapsed)
	}
}
