package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New 依設定建立 slog.Logger，輸出到 stdout
//
// 參數:
//
//	level: "debug", "info", "warn", "error" (其他值視為 info)
//	format: "json" 或 "text" (其他值視為 json)
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter 同 New，但可指定輸出位置
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo // 預設 info
	}
}
