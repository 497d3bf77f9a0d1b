// Package logger is the logging front-end of avparse: a thin asynchronous
// facade over logrus that tags every line with the emitting object. Parsers
// log rarely (dropped units, attribute changes), so only the levels the
// module actually emits are exposed.
package logger

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"
)

type stringer interface {
	String() string
}

type entry struct {
	logFn func(...any)
	obj   string
	msg   string
}

const (
	queueSize = 1000
	objWidth  = 20
)

var logCh = make(chan entry, queueSize)

// objToString derives the source tag: fmt.Stringer or a plain string when
// available, the bare type name otherwise.
func objToString(obj any) string {
	switch v := obj.(type) {
	case nil:
		return "NIL"
	case stringer:
		return v.String()
	case string:
		return v
	default:
		return reflect.TypeOf(obj).Name()
	}
}

// Init sets the level and formatter and starts the draining goroutine. Call
// it once before any logging.
func Init(lvl logrus.Level) {
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		PadLevelText:    true,
		TimestampFormat: "2006/02/01 15:04:05",
	})

	go func() {
		sb := new(bytes.Buffer)
		for e := range logCh {
			if len(e.obj) > objWidth {
				e.obj = e.obj[:objWidth]
			}
			fmt.Fprintf(sb, "|%20s|%-100s", e.obj, e.msg)
			e.logFn(sb.String())
			sb.Reset()
		}
	}()
}

func push(lvl logrus.Level, logFn func(...any), object any, format string, args ...any) {
	if logrus.GetLevel() < lvl {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	logCh <- entry{logFn: logFn, obj: objToString(object), msg: msg}
}

// Debugf reports per-unit parsing detail, such as dropped undecodable units.
func Debugf(object any, message string, args ...any) {
	push(logrus.DebugLevel, logrus.Debug, object, message, args...)
}

// Infof reports notable stream events, such as attribute changes.
func Infof(object any, message string, args ...any) {
	push(logrus.InfoLevel, logrus.Info, object, message, args...)
}

// Warning reports recoverable oddities in the input.
func Warning(object any, message string) {
	push(logrus.WarnLevel, logrus.Warning, object, message)
}

// Fatalf logs synchronously, bypassing the queue, and exits the process.
func Fatalf(object any, message string, args ...any) {
	obj := objToString(object)
	if len(obj) > objWidth {
		obj = obj[:objWidth]
	}
	logrus.Fatalf("|%20s|%-100s", obj, fmt.Sprintf(message, args...))
}
