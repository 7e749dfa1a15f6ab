package core

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var once sync.Once

type logger struct {
	*log.Logger
	file *lumberjack.Logger
}

var singleton *logger

func getLogger() *logger {
	if singleton == nil {
		once.Do(
			func() {
				l := log.NewWithOptions(os.Stderr, log.Options{
					ReportCaller:    true,
					ReportTimestamp: true,
					TimeFormat:      time.RFC3339,
					Prefix:          "Engine 🏎️ ",
				})
				l.SetLevel(log.InfoLevel)
				singleton = &logger{Logger: l}
			})
	}
	return singleton
}

// ConfigureLogging applies the logging related options. With debug enabled the
// level drops to debug; with a log file set every line is also written to a
// size-rotated file.
func ConfigureLogging(opts CoreOptions) {
	l := getLogger()
	if opts.Debug {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.InfoLevel)
	}

	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
	if opts.LogFile == "" {
		l.SetOutput(os.Stderr)
		return
	}
	l.file = &lumberjack.Logger{
		Filename:   opts.LogFile,
		MaxSize:    16, // megabytes
		MaxBackups: 3,
		Compress:   true,
	}
	l.SetOutput(io.MultiWriter(os.Stderr, l.file))
}

// SetLogOutput redirects the engine logger, mostly useful in tests.
func SetLogOutput(w io.Writer) {
	getLogger().SetOutput(w)
}

// Logger exposes the underlying structured logger so packages can attach
// key/value context with With.
func Logger() *log.Logger {
	return getLogger().Logger
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}
