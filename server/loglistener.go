// File: server/loglistener.go
// Author: momentics <momentics@gmail.com>
//
// Default EventListener implementation that logs through zap.

package server

import (
	"go.uber.org/zap"

	"github.com/momentics/lnet/api"
)

// LoggingListener is an api.EventListener that forwards every notification
// to a zap logger. It is the fallback listener when none is supplied.
type LoggingListener struct {
	log *zap.Logger
}

// NewLoggingListener wraps the given logger. A nil logger becomes a nop.
func NewLoggingListener(log *zap.Logger) *LoggingListener {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingListener{log: log}
}

// OnError logs a non-fatal core failure.
func (l *LoggingListener) OnError(err error) {
	l.log.Warn("reactor error", zap.Error(err))
}

// OnChannelOpen logs an accepted connection.
func (l *LoggingListener) OnChannelOpen(ch api.Channel) {
	l.log.Info("channel open", zap.Int("fd", ch.FD()))
}

// OnChannelClosed logs a closed connection with its reason.
func (l *LoggingListener) OnChannelClosed(ch api.Channel, reason api.CloseReason) {
	l.log.Info("channel closed",
		zap.Int("fd", ch.FD()), zap.String("reason", string(reason)))
}
