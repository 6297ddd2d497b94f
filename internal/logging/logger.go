// seehuhn.de/go/testimg - synthetic raster images for document tests
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package logging provides a small leveled logger for the command line
// tools.  Messages below the configured level are discarded.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level is the severity of a log message.
type Level int

// These are the supported log levels, in increasing order of severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// levelNames lists the names accepted by [ParseLevel], indexed by level.
var levelNames = [...]string{"debug", "info", "warn", "error"}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ParseLevel converts a level name, ignoring case.  The second return
// value is false if the name is not recognized.
func ParseLevel(s string) (Level, bool) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), true
		}
	}
	return LevelInfo, false
}

// Logger writes leveled messages, each prefixed with the program name.
type Logger struct {
	level Level
	out   *log.Logger
}

// New creates a logger which writes messages at the given level and above
// to w.  If w is nil, os.Stderr is used.
func New(prog string, level Level, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		level: level,
		out:   log.New(w, prog+": ", 0),
	}
}

// Enabled reports whether messages at the given level are written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

// Debug logs a message at [LevelDebug].  Arguments are handled as in
// fmt.Printf.
func (l *Logger) Debug(format string, v ...any) { l.logf(LevelDebug, format, v...) }

// Info logs a message at [LevelInfo].
func (l *Logger) Info(format string, v ...any) { l.logf(LevelInfo, format, v...) }

// Warn logs a message at [LevelWarn].
func (l *Logger) Warn(format string, v ...any) { l.logf(LevelWarn, format, v...) }

// Error logs a message at [LevelError].
func (l *Logger) Error(format string, v ...any) { l.logf(LevelError, format, v...) }

func (l *Logger) logf(level Level, format string, v ...any) {
	if !l.Enabled(level) {
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, v...))
}
