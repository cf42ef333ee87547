package dashboard

import (
	"go.uber.org/zap"
)

// Notifier receives the one-line outcome of every user action.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("dashboard")}
}

func (n *LogNotifier) Success(message string) {
	n.logger.Info(message)
}

func (n *LogNotifier) Error(message string) {
	n.logger.Warn(message)
}
