package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	service   string
	requestID string
	entry     *logrus.Logger
}

func New(service string) *Logger { return NewWithWriter(service, os.Stdout) }

// NewWithWriter builds a logger that writes JSON lines to w.
func NewWithWriter(service string, w io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyMsg:   "message",
			logrus.FieldKeyLevel: "level",
		},
	})
	return &Logger{service: service, entry: l}
}

// SetLevel accepts logrus level names; unknown names are ignored.
func (l *Logger) SetLevel(level string) {
	if lv, err := logrus.ParseLevel(level); err == nil {
		l.entry.SetLevel(lv)
	}
}

// WithRequestID returns a copy that stamps every entry with id.
func (l *Logger) WithRequestID(id string) *Logger {
	cp := *l
	cp.requestID = id
	return &cp
}

func (l *Logger) log(level logrus.Level, action string, fields map[string]any, err error) {
	f := logrus.Fields{
		"service":    l.service,
		"action":     action,
		"hostname":   hostname(),
		"request_id": l.requestID,
	}
	for k, v := range fields {
		f[k] = v
	}
	if err != nil {
		f["error"] = map[string]any{"msg": err.Error(), "type": fmt.Sprintf("%T", err)}
	}
	l.entry.WithFields(f).Log(level, action)
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log(logrus.InfoLevel, action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log(logrus.DebugLevel, action, fields, nil) }
func (l *Logger) Warn(action string, fields map[string]any)  { l.log(logrus.WarnLevel, action, fields, nil) }
func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log(logrus.ErrorLevel, action, fields, err)
}

func hostname() string { h, _ := os.Hostname(); return h }
