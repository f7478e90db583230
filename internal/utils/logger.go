package utils

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	CurrentLevel   LogLevel = LevelWarn
	ShowRaylibInfo bool
	ShowDebugUI    bool

	// Colors is on when the log output is a terminal.
	Colors = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
)

const colorReset = "\033[0m"

var levelInfo = [...]struct {
	name  string
	color string
}{
	LevelDebug: {"DEBUG", "\033[36m"},
	LevelInfo:  {"INFO", "\033[34m"},
	LevelWarn:  {"WARN", "\033[33m"},
	LevelError: {"ERROR", "\033[31m"},
}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelInfo[l].name
}

// ParseLevel maps a level name to a LogLevel. Unknown names fall back to LevelWarn.
func ParseLevel(name string) LogLevel {
	for l, info := range levelInfo {
		if strings.EqualFold(strings.TrimSpace(name), info.name) {
			return LogLevel(l)
		}
	}
	return LevelWarn
}

// Logger tags every line with a component name.
type Logger struct {
	tag string
}

func Tagged(tag string) Logger {
	return Logger{tag: tag}
}

func (lg Logger) Debug(format string, v ...interface{}) { lg.log(LevelDebug, format, v...) }
func (lg Logger) Info(format string, v ...interface{})  { lg.log(LevelInfo, format, v...) }
func (lg Logger) Warn(format string, v ...interface{})  { lg.log(LevelWarn, format, v...) }
func (lg Logger) Error(format string, v ...interface{}) { lg.log(LevelError, format, v...) }

func (lg Logger) log(level LogLevel, format string, v ...interface{}) {
	if level < CurrentLevel {
		return
	}
	lg.emit(level, format, v...)
}

func (lg Logger) emit(level LogLevel, format string, v ...interface{}) {
	var b strings.Builder
	b.WriteString(paint("["+level.String()+"]", levelInfo[level].color))
	if lg.tag != "" {
		b.WriteString(" ")
		b.WriteString(paint("["+lg.tag+"]", "\033[35m"))
	}
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf(format, v...))
	log.Print(b.String())
}

func paint(s, color string) string {
	if !Colors {
		return s
	}
	return color + s + colorReset
}

var untagged Logger

func Info(format string, v ...interface{})  { untagged.Info(format, v...) }
func Debug(format string, v ...interface{}) { untagged.Debug(format, v...) }
func Warn(format string, v ...interface{})  { untagged.Warn(format, v...) }
func Error(format string, v ...interface{}) { untagged.Error(format, v...) }

var raylibLog = Tagged("RAYLIB")

// RaylibLogCallback routes raylib trace output through the leveled logger.
// Raylib levels: 1 trace, 2 debug, 3 info, 4 warning, 5 error, 6 fatal.
func RaylibLogCallback(level int, text string) {
	switch level {
	case 1, 2:
		raylibLog.Debug("%s", text)
	case 3:
		if ShowRaylibInfo || CurrentLevel <= LevelInfo {
			raylibLog.emit(LevelInfo, "%s", text)
		}
	case 4:
		raylibLog.Warn("%s", text)
	case 5, 6:
		raylibLog.Error("%s", text)
	}
}
