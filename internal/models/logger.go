package models

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// SlowQueryThreshold is the duration above which a query is logged as a
// warning.
const SlowQueryThreshold = 200 * time.Millisecond

// logger writes gorm's output to zerolog. Every query is logged at debug
// level, slow queries as warnings and failed queries as errors. Lookups
// that found nothing are not failures.
type logger struct {
	log   zerolog.Logger
	level gorm_logger.LogLevel
	slow  time.Duration
}

func newLogger(log zerolog.Logger) *logger {
	return &logger{
		log:   log,
		level: gorm_logger.Info,
		slow:  SlowQueryThreshold,
	}
}

func (l *logger) LogMode(level gorm_logger.LogLevel) gorm_logger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *logger) Info(_ context.Context, s string, args ...any) {
	if l.level >= gorm_logger.Info {
		l.log.Info().Msgf(s, args...)
	}
}

func (l *logger) Warn(_ context.Context, s string, args ...any) {
	if l.level >= gorm_logger.Warn {
		l.log.Warn().Msgf(s, args...)
	}
}

func (l *logger) Error(_ context.Context, s string, args ...any) {
	if l.level >= gorm_logger.Error {
		l.log.Error().Msgf(s, args...)
	}
}

func (l *logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gorm_logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	event := func(e *zerolog.Event) *zerolog.Event {
		return e.Str("sql", sql).Int64("rows", rows).Dur("duration", elapsed)
	}

	switch {
	case err != nil && !notFound(err) && l.level >= gorm_logger.Error:
		event(l.log.Error().Err(err)).Msg("query failed")
	case l.slow > 0 && elapsed > l.slow && l.level >= gorm_logger.Warn:
		event(l.log.Warn()).Dur("threshold", l.slow).Msg("slow query")
	case l.level >= gorm_logger.Info:
		event(l.log.Debug()).Msg("query")
	}
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrResourceNotFound)
}
