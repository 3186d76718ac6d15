package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	Logger  *zerolog.Logger
	logFile *os.File
)

// Init 初始化 zerolog 日志
// level: 日志级别 ("trace", "debug", "info", "warn", "error")
// file: 日志文件路径，为空时仅输出到控制台
// 日志写到 stderr，stdout 留给报告和交互提示
func Init(level string, file string) error {
	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}

	if err := Close(); err != nil {
		return err
	}

	if file != "" {
		// 文件里保留 JSON 格式，方便事后检索
		fileWriter, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		logFile = fileWriter
		output = zerolog.MultiLevelWriter(output, fileWriter)
	}

	logger := log.Output(output).With().Timestamp().Logger().Level(ParseLevel(level))

	Logger = &logger
	return nil
}

// ParseLevel 解析日志级别，无法识别时返回 info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get 返回全局 logger 实例
// 如果 logger 未初始化，返回一个默认的 logger（输出到 /dev/null）
func Get() *zerolog.Logger {
	if Logger == nil {
		logger := zerolog.New(io.Discard)
		Logger = &logger
	}
	return Logger
}

// WithRun 为全局 logger 附加本次运行的标识
func WithRun(runID string) {
	logger := Get().With().Str("run", runID).Logger()
	Logger = &logger
}

// Close 关闭 Init 打开的日志文件，之后的日志只写控制台
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	if Logger != nil {
		logger := Logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
		Logger = &logger
	}
	return err
}
