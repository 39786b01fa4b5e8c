package log

func Info(args ...any)                 { s().Info(args...) }
func Infof(format string, args ...any) { s().Infof(format, args...) }
func Infow(msg string, kv ...any)      { s().Infow(msg, kv...) }

func Debug(args ...any)                 { s().Debug(args...) }
func Debugf(format string, args ...any) { s().Debugf(format, args...) }
func Debugw(msg string, kv ...any)      { s().Debugw(msg, kv...) }

func Warn(args ...any)                 { s().Warn(args...) }
func Warnf(format string, args ...any) { s().Warnf(format, args...) }
func Warnw(msg string, kv ...any)      { s().Warnw(msg, kv...) }

func Error(args ...any)                 { s().Error(args...) }
func Errorf(format string, args ...any) { s().Errorf(format, args...) }
func Errorw(msg string, kv ...any)      { s().Errorw(msg, kv...) }

func Fatal(args ...any)                 { s().Fatal(args...) }
func Fatalf(format string, args ...any) { s().Fatalf(format, args...) }

// Sync flushes buffered entries.
func Sync() error {
	return s().Sync()
}
