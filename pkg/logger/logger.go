package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log 是一个全局的 logrus 实例，InitLogger 之前也可以直接使用（输出到stderr，文本格式）
var Log = logrus.New()

// InitLogger 初始化全局的Logger实例
func InitLogger(level, file string) error {
	Log = logrus.New()

	// 1. 设置日志格式为JSON，便于后续使用ELK、Loki等工具进行分析
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	// 2. 日志同时输出到控制台和文件，file为空时只输出控制台
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		Log.SetOutput(io.MultiWriter(os.Stdout, f))
	} else {
		Log.SetOutput(os.Stdout)
	}

	// 3. 设置日志级别，解析失败就退回Info
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	return nil
}

// Discard 返回一个什么都不输出的logger，测试里用
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
