package datasets

import "go.uber.org/zap"

// logger is shared by every list in the package. It discards everything
// until SetLogger is called.
var logger = zap.NewNop()

// SetLogger replaces the package logger. A nil logger restores the no-op one.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
