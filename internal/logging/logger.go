// Package logging wires the process wide logrus logger for go-ecsdemo.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

var logger = logrus.New()

// ProcessId identifies this process in every log line
var ProcessId string = uuid.New().String()

type DefaultFieldHook struct {
	hostname string
}

func (hook *DefaultFieldHook) Fire(entry *logrus.Entry) error {
	entry.Data["hostname"] = hook.hostname
	entry.Data["processId"] = ProcessId
	return nil
}

func (hook *DefaultFieldHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// GetLogger returns an entry tagged with the component name
func GetLogger(name string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"logName": name,
	})
}

// Logger exposes the underlying logger, e.g. for gin's access log writer
func Logger() *logrus.Logger {
	return logger
}

// Setup configures level and formatter. format is one of text, json or auto;
// auto logs json unless stdout is a terminal.
func Setup(level string, format string) error {
	return setup(os.Stdout, isTerminal(os.Stdout), level, format)
}

func setup(out io.Writer, tty bool, level string, format string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "parse log level")
	}

	switch format {
	case "json":
		logger.SetFormatter(jsonFormatter())
	case "text", "":
		logger.SetFormatter(textFormatter())
	case "auto":
		if tty {
			logger.SetFormatter(textFormatter())
		} else {
			logger.SetFormatter(jsonFormatter())
		}
	default:
		return errors.Errorf("unknown log format %q", format)
	}

	logger.SetOutput(out)
	logger.SetLevel(lvl)
	logger.ReplaceHooks(make(logrus.LevelHooks))
	name, _ := os.Hostname()
	logger.AddHook(&DefaultFieldHook{hostname: name})
	return nil
}

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		ForceQuote:      true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	}
}

func jsonFormatter() logrus.Formatter {
	return &logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
