package logger

import (
	"os"
	"storefront-checkout/internal/config"

	"github.com/sirupsen/logrus"
)

// New builds the process logger from the LOG_* settings. Unknown levels fall
// back to info.
func New(cfg config.Log) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log
}
