package logger

import (
	"github.com/op/go-logging"
)

// 每条日志前附加固定前缀，例如区分不同的workload
type PrefixLogger struct {
	prefix string
	log    *logging.Logger
}

// 注意需要自行将ExtraCalldepth加1，以便拿到log文件名，行号等信息
func WrapWithPrefixLogger(prefix string, logger *logging.Logger) *PrefixLogger {
	return &PrefixLogger{prefix, logger}
}

func GetPrefixLogger(module, prefix string) (*PrefixLogger, error) {
	logger, err := logging.GetLogger(module)
	if err != nil {
		return nil, err
	}
	logger.ExtraCalldepth++
	return WrapWithPrefixLogger(prefix, logger), nil
}

// 生成嵌套前缀的logger，共享同一个底层logger
func (l *PrefixLogger) Sub(prefix string) *PrefixLogger {
	return &PrefixLogger{l.prefix + " " + prefix, l.log}
}

func (l *PrefixLogger) withPrefix(args []interface{}) []interface{} {
	return append([]interface{}{l.prefix}, args...)
}

func (l *PrefixLogger) Error(args ...interface{}) {
	if l.log.IsEnabledFor(logging.ERROR) {
		l.log.Error(l.withPrefix(args)...)
	}
}

func (l *PrefixLogger) Errorf(format string, args ...interface{}) {
	if l.log.IsEnabledFor(logging.ERROR) {
		l.log.Errorf(l.prefix+" "+format, args...)
	}
}

func (l *PrefixLogger) Warning(args ...interface{}) {
	if l.log.IsEnabledFor(logging.WARNING) {
		l.log.Warning(l.withPrefix(args)...)
	}
}

func (l *PrefixLogger) Warningf(format string, args ...interface{}) {
	if l.log.IsEnabledFor(logging.WARNING) {
		l.log.Warningf(l.prefix+" "+format, args...)
	}
}

func (l *PrefixLogger) Info(args ...interface{}) {
	if l.log.IsEnabledFor(logging.INFO) {
		l.log.Info(l.withPrefix(args)...)
	}
}

func (l *PrefixLogger) Infof(format string, args ...interface{}) {
	if l.log.IsEnabledFor(logging.INFO) {
		l.log.Infof(l.prefix+" "+format, args...)
	}
}

func (l *PrefixLogger) Debug(args ...interface{}) {
	if l.log.IsEnabledFor(logging.DEBUG) {
		l.log.Debug(l.withPrefix(args)...)
	}
}

func (l *PrefixLogger) Debugf(format string, args ...interface{}) {
	if l.log.IsEnabledFor(logging.DEBUG) {
		l.log.Debugf(l.prefix+" "+format, args...)
	}
}
