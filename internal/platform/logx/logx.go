// internal/platform/logx/logx.go
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
}

// zapLogger adapta un SugaredLogger de zap a la interfaz Logger.
// El nivel es compartido entre el logger raíz y sus hijos (With).
type zapLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

func New() Logger {
	return newLogger(os.Stderr, parseLevel(os.Getenv("PASSHUNT_LOG_LEVEL")))
}

// NewWithLevel creates a logger with a specific log level
func NewWithLevel(lvl Level) Logger {
	return newLogger(os.Stderr, lvl)
}

// NewSilent creates a logger that only outputs errors (silent mode for UI)
func NewSilent() Logger {
	return NewWithLevel(LevelError)
}

// NewWriter crea un logger que escribe en w. Usado por tests.
func NewWriter(w io.Writer, lvl Level) Logger {
	return newLogger(w, lvl)
}

func newLogger(w io.Writer, lvl Level) Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.CallerKey = ""

	level := zap.NewAtomicLevelAt(toZap(lvl))
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)

	return &zapLogger{
		sugar: zap.New(core).Sugar(),
		level: level,
	}
}

func (z *zapLogger) With(kv ...any) Logger {
	return &zapLogger{
		sugar: z.sugar.With(normalizeKV(kv)...),
		level: z.level,
	}
}

func (z *zapLogger) SetLevel(lvl Level) {
	z.level.SetLevel(toZap(lvl))
}

func (z *zapLogger) Debug(msg string, kv ...any) { z.sugar.Debugw(msg, normalizeKV(kv)...) }
func (z *zapLogger) Info(msg string, kv ...any)  { z.sugar.Infow(msg, normalizeKV(kv)...) }
func (z *zapLogger) Warn(msg string, kv ...any)  { z.sugar.Warnw(msg, normalizeKV(kv)...) }
func (z *zapLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	kv = append([]any{"error", err.Error()}, kv...)
	z.sugar.Errorw("", normalizeKV(kv)...)
}

// normalizeKV garantiza pares clave/valor válidos para zap: claves string
// y valor "(missing)" cuando el número de argumentos es impar.
func normalizeKV(kv []any) []any {
	out := make([]any, 0, len(kv)+1)
	for i := 0; i < len(kv); i += 2 {
		out = append(out, fmt.Sprintf("%v", kv[i]))
		if i+1 < len(kv) {
			out = append(out, kv[i+1])
		} else {
			out = append(out, "(missing)")
		}
	}
	return out
}

func toZap(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func parseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return LevelDebug
	case "info", "inf", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ParseLevel expone parseLevel para la capa de configuración.
func ParseLevel(s string) Level {
	return parseLevel(s)
}
