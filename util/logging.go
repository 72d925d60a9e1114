package util

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ConfigureLogging applies the log level, format and output from conf to the
// standard logrus logger. The returned closer must be closed on shutdown.
func ConfigureLogging(conf *ConfigType) (io.Closer, error) {
	level := log.InfoLevel
	if conf.LogLevel != "" {
		var err error
		level, err = log.ParseLevel(conf.LogLevel)
		if err != nil {
			return nil, err
		}
	}
	log.SetLevel(level)

	if conf.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if conf.LogFile == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   conf.LogFile,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))

	return rotator, nil
}
