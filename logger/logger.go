package logger

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/lestrrat-go/file-rotatelogs"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

const (
	LOG_ROTATION_INTERVAL = 24 * time.Hour      // every day
	LOG_MAX_AGE           = 30 * 24 * time.Hour // every month
	LOG_FORMAT            = "%{time:2006-01-02 15:04:05.000} [%{level:.4s}] %{shortfile} %{message}"
	LOG_COLOR_FORMAT      = "%{color}%{time:2006-01-02 15:04:05.000} [%{level:.4s}]%{color:reset} %{shortfile} %{message}"
)

var log = logging.MustGetLogger("logger")

// 无法识别的级别按info处理
func ParseLevel(levelString string) logging.Level {
	level, err := logging.LogLevel(strings.ToUpper(levelString))
	if err != nil {
		return logging.INFO
	}
	return level
}

func consoleBackend(level logging.Level) logging.LeveledBackend {
	stdout := logging.AddModuleLevel(
		logging.NewBackendFormatter(
			logging.NewLogBackend(os.Stderr, "", 0),
			logging.MustStringFormatter(LOG_COLOR_FORMAT),
		),
	)
	stdout.SetLevel(level, "")
	return stdout
}

func InitConsoleLog(levelString string) {
	logging.SetBackend(consoleBackend(ParseLevel(levelString)))
}

func InitLog(filePath string, levelString string) error {
	level := ParseLevel(levelString)

	dir := path.Dir(filePath)
	if _, err := os.Stat(dir); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "stat log dir %s", dir)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "create log dir %s", dir)
		}
	}

	ioWriter, err := rotatelogs.New(
		filePath+".%Y-%m-%d",
		rotatelogs.WithLinkName(filePath),
		rotatelogs.WithMaxAge(LOG_MAX_AGE),
		rotatelogs.WithRotationTime(LOG_ROTATION_INTERVAL),
	)
	if err != nil {
		return errors.Wrapf(err, "open log file %s", filePath)
	}

	file := logging.AddModuleLevel(
		logging.NewBackendFormatter(
			logging.NewLogBackend(ioWriter, "", 0),
			logging.MustStringFormatter(LOG_FORMAT),
		),
	)
	file.SetLevel(level, "")
	logging.SetBackend(consoleBackend(level), file)
	log.Debugf("log file %s enabled at level %s", filePath, level)
	return nil
}
