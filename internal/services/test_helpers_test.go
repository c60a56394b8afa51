package services_test

import (
	"github.com/gymratia/gymratia-api/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func strPtr(s string) *string {
	return &s
}
