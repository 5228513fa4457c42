package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogWriter holds the optional log file handle so it can be flushed on exit.
type LogWriter struct {
	logFile *os.File
}

func (lw *LogWriter) Dispose() {
	if lw.logFile != nil {
		lw.logFile.Close()
	}
}

// InitLogger configures the global logrus logger from the loaded config.
func InitLogger() (*LogWriter, logrus.FieldLogger) {
	logWriter := &LogWriter{}
	logger := logrus.StandardLogger()

	if Config.Logging.OutputLevel != "" {
		level, err := logrus.ParseLevel(Config.Logging.OutputLevel)
		if err != nil {
			logger.Errorf("invalid log level %v, falling back to info", Config.Logging.OutputLevel)
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)
	}

	if Config.Logging.OutputStderr {
		logger.SetOutput(os.Stderr)
	}

	if Config.Logging.FilePath != "" {
		logFile, err := os.OpenFile(Config.Logging.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Errorf("could not open log file %v: %v", Config.Logging.FilePath, err)
		} else {
			logWriter.logFile = logFile

			fileLevel := logger.GetLevel()
			if Config.Logging.FileLevel != "" {
				if level, err := logrus.ParseLevel(Config.Logging.FileLevel); err == nil {
					fileLevel = level
				}
			}

			logger.AddHook(&fileLogHook{
				writer: logFile,
				level:  fileLevel,
				fmt:    &logrus.TextFormatter{DisableColors: true},
			})
		}
	}

	return logWriter, logger
}

type fileLogHook struct {
	writer io.Writer
	level  logrus.Level
	fmt    logrus.Formatter
}

func (h *fileLogHook) Levels() []logrus.Level {
	levels := []logrus.Level{}
	for _, level := range logrus.AllLevels {
		if level <= h.level {
			levels = append(levels, level)
		}
	}
	return levels
}

func (h *fileLogHook) Fire(entry *logrus.Entry) error {
	line, err := h.fmt.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}
