package logger

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"employee-crud-starter/internal/core/config"
)

type FileRotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Options struct {
	Level       string // debug / info / warn / error
	JSON        bool
	AddCaller   bool
	Development bool
	Rotate      FileRotate
	Out         io.Writer // 默认 os.Stdout
}

func New(level string, json bool) (*zap.Logger, func()) {
	return Build(Options{Level: level, JSON: json, AddCaller: true, Development: !json})
}

// FromConfig 按 log 配置构建，启用 rotate 时同时写文件
func FromConfig(c config.Log) (*zap.Logger, func()) {
	return Build(Options{
		Level:       c.Level,
		JSON:        c.JSON,
		AddCaller:   true,
		Development: !c.JSON,
		Rotate: FileRotate{
			Enable:     c.Rotate.Enable,
			Filename:   c.Rotate.Filename,
			MaxSizeMB:  c.Rotate.MaxSizeMB,
			MaxBackups: c.Rotate.MaxBackups,
			MaxAgeDays: c.Rotate.MaxAgeDays,
			Compress:   c.Rotate.Compress,
		},
	})
}

func Build(opt Options) (*zap.Logger, func()) {
	var lvl zapcore.Level
	if err := lvl.Set(opt.Level); err != nil {
		lvl = zapcore.InfoLevel
	}

	var enc zapcore.Encoder
	if opt.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.TimeKey = "ts"
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	out := opt.Out
	if out == nil {
		out = os.Stdout
	}
	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.AddSync(out), lvl)}

	var rotator *lumberjack.Logger
	if opt.Rotate.Enable {
		rotator = &lumberjack.Logger{
			Filename:   opt.Rotate.Filename,
			MaxSize:    max(1, opt.Rotate.MaxSizeMB),
			MaxBackups: max(0, opt.Rotate.MaxBackups),
			MaxAge:     max(0, opt.Rotate.MaxAgeDays),
			Compress:   opt.Rotate.Compress,
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(rotator), lvl))
	}

	sampled := zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)

	var zopts []zap.Option
	if opt.AddCaller {
		zopts = append(zopts, zap.AddCaller())
	}
	if opt.Development {
		zopts = append(zopts, zap.Development())
	}
	l := zap.New(sampled, zopts...)
	cleanup := func() {
		_ = l.Sync()
		if rotator != nil {
			_ = rotator.Close()
		}
	}
	return l, cleanup
}

// Setup 按配置构建 logger，并把标准库 log 一并接到 zap 上；两个入口都用它
func Setup(c config.Log) (*zap.Logger, func()) {
	l, cleanup := FromConfig(c)
	undo := RedirectStdLog(l, zapcore.InfoLevel)
	return l, func() {
		undo()
		cleanup()
	}
}

// RedirectStdLog 让标准库 log 输出走 zap
func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, level)
	if err != nil {
		return func() {}
	}
	return undo
}
