package daemon

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetLogLevel(t *testing.T) {
	logger := quietLogger()

	SetLogLevel(logger, "debug")
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v, want debug", logger.GetLevel())
	}
	SetLogLevel(logger, "loud")
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %v, want info fallback", logger.GetLevel())
	}
}
