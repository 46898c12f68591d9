package daemon

import "github.com/sirupsen/logrus"

// SetLogLevel applies a config log level. Unknown levels fall back to info.
func SetLogLevel(logger *logrus.Logger, level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithField("log_level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
}
