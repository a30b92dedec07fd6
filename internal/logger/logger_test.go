package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type LoggerTestSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (suite *LoggerTestSuite) TestNewLogger() {
	logger, err := NewLogger()
	suite.NoError(err)
	suite.NotNil(logger)
	suite.NotNil(logger.Logger)
}

func (suite *LoggerTestSuite) TestLoggerSyncNilLogger() {
	logger := &Logger{Logger: nil}
	suite.NoError(logger.Sync())
}

func (suite *LoggerTestSuite) TestNewWithFile() {
	path := filepath.Join(suite.T().TempDir(), "screener.log")
	logger, err := New(Options{Level: "debug", Format: "console", File: path})
	suite.Require().NoError(err)

	logger.Info("screen finished", zap.String("strategy", "ema-trend"), zap.Int("hits", 3))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Contains(string(data), "screen finished")
	suite.Contains(string(data), "ema-trend")
}

func (suite *LoggerTestSuite) TestNewRejectsUnknownLevel() {
	_, err := New(Options{Level: "loud"})
	suite.Error(err)
}

func (suite *LoggerTestSuite) TestNop() {
	logger := NewNop()
	logger.Warn("discarded")
	suite.NoError(logger.Sync())
}
