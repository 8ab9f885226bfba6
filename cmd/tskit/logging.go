package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

func newLogger(level string, logFilePath string) (*logrus.Logger, func(), error) {
	logLvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse log level - %w", err)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}

	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file - %w", err)
		}

		w = io.MultiWriter(os.Stderr, f)
		closeFn = func() {
			_ = f.Close()
		}
	}

	return &logrus.Logger{
		Out: w,
		Formatter: &logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
			DisableSorting:  true,
		},
		Hooks: make(logrus.LevelHooks),
		Level: logLvl,
	}, closeFn, nil
}
