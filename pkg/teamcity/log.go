// Package teamcity emits TeamCity service messages for CI progress
// reporting. A Logger writes the escaped, line-oriented wire format to a
// single output stream and keeps an unescaped transcript of everything
// logged through it.
package teamcity

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// escapes maps the characters that carry meaning inside a service
// message attribute to their two-character sequences.
var escapes = map[rune]string{
	'\'': "|'",
	'|':  "||",
	'\n': "|n",
	'\r': "|r",
	'[':  "|[",
	']':  "|]",
}

// Escape replaces every service-message special character in s with its
// escaped form. All other characters pass through unchanged, so embedded
// quotes, pipes, newlines and brackets can never break the tag syntax.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if esc, ok := escapes[r]; ok {
			b.WriteString(esc)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Logger writes progress events as TeamCity service messages and
// accumulates a plain-text transcript. Create one Logger per run and
// pass it explicitly to every component that reports progress; there is
// no package-level instance.
//
// Logger is not safe for concurrent use. The driver is strictly
// sequential, so no locking is needed.
type Logger struct {
	out        io.Writer
	plain      bool
	transcript strings.Builder
}

// Option configures a Logger.
type Option func(*Logger)

// PlainOutput renders events as human-readable lines instead of service
// messages. Escaping semantics and the transcript are unchanged; only
// the rendering of emitted lines differs. Intended for running a config
// interactively in a terminal rather than under a CI agent.
func PlainOutput() Option {
	return func(l *Logger) { l.plain = true }
}

// NewLogger returns a Logger writing to out, normally os.Stdout.
func NewLogger(out io.Writer, opts ...Option) *Logger {
	l := &Logger{out: out}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// emit writes one service message line. Attributes are emitted in sorted
// key order so the output is deterministic; an attribute missing from
// the map is omitted entirely.
func (l *Logger) emit(token string, attrs map[string]string) {
	var b strings.Builder
	b.WriteString("##teamcity[")
	b.WriteString(token)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s='%s'", k, Escape(attrs[k]))
	}
	b.WriteString("]\n")
	io.WriteString(l.out, b.String())
	if f, ok := l.out.(interface{ Flush() error }); ok {
		f.Flush()
	}
}

func (l *Logger) plainLine(c *color.Color, line string) {
	if c != nil {
		line = c.Sprint(line)
	}
	io.WriteString(l.out, line+"\n")
}

// Message logs an informational line.
func (l *Logger) Message(text string) {
	l.transcript.WriteString(text + "\n")
	if l.plain {
		l.plainLine(nil, text)
		return
	}
	l.emit("message", map[string]string{"text": text})
}

// Warn logs a warning line.
func (l *Logger) Warn(text string) {
	l.transcript.WriteString("WARNING: " + text + "\n")
	if l.plain {
		l.plainLine(color.New(color.FgYellow), "WARNING: "+text)
		return
	}
	l.emit("message", map[string]string{"text": text, "status": "WARNING"})
}

// Error logs an error line. details carries additional context for the
// CI server's errorDetails attribute and may be empty.
func (l *Logger) Error(text, details string) {
	l.transcript.WriteString("ERROR: " + text + "\n")
	if l.plain {
		line := "ERROR: " + text
		if details != "" {
			line += " (" + details + ")"
		}
		l.plainLine(color.New(color.FgRed), line)
		return
	}
	l.emit("message", map[string]string{
		"text":         text,
		"status":       "ERROR",
		"errorDetails": details,
	})
}

// RecordMetric publishes a numeric build statistic for CI dashboards.
// It leaves no transcript entry.
func (l *Logger) RecordMetric(name string, value float64) {
	v := strconv.FormatFloat(value, 'g', -1, 64)
	if l.plain {
		l.plainLine(color.New(color.Faint), name+" = "+v)
		return
	}
	l.emit("buildStatisticValue", map[string]string{"key": name, "value": v})
}

// Transcript returns the accumulated plain-text log.
func (l *Logger) Transcript() string {
	return l.transcript.String()
}

// WriteTranscript writes the accumulated plain-text log to w.
func (l *Logger) WriteTranscript(w io.Writer) (int, error) {
	return io.WriteString(w, l.transcript.String())
}
