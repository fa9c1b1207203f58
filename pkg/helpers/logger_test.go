package helpers

import (
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/lamassuiot/pkix-fixtures/pkg/config"
)

func TestConfigureLoggerWithRequestID(t *testing.T) {
	// Test case 1: logger level below DebugLevel gets no request ID field
	logger := logrus.NewEntry(logrus.New())
	logger.Logger.Level = logrus.InfoLevel
	ctx := context.Background()

	result := configureLoggerWithRequestID(ctx, logger)
	if result != logger {
		t.Error("configureLoggerWithRequestID returned a different logger when level is below DebugLevel")
	}

	logger = logrus.NewEntry(logrus.New())
	logger.Logger.Level = logrus.DebugLevel

	result = configureLoggerWithRequestID(ctx, logger)
	if result == logger {
		t.Error("configureLoggerWithRequestID returned the same logger at DebugLevel")
	}

	// Test case 2: request ID exists in the context
	reqID := "internal.12345"
	ctx = context.WithValue(context.Background(), CtxRequestID, reqID)

	result = configureLoggerWithRequestID(ctx, logger)
	if result.Data["req-id"] != reqID {
		t.Errorf("expected request ID %s, got %v", reqID, result.Data["req-id"])
	}

	// Test case 3: no request ID in the context, one is generated
	result = configureLoggerWithRequestID(context.Background(), logger)

	generated, ok := result.Data["req-id"].(string)
	if !ok {
		t.Fatal("configureLoggerWithRequestID returned logger without a string request ID field")
	}
	if !strings.HasPrefix(generated, "unset.") {
		t.Errorf("expected generated request ID with 'unset.' prefix, got %s", generated)
	}
}

func TestInitContextCarriesRequestID(t *testing.T) {
	ctx := InitContext()

	reqID, ok := ctx.Value(CtxRequestID).(string)
	if !ok {
		t.Fatal("InitContext did not set a request ID")
	}
	if !strings.HasPrefix(reqID, "internal.") {
		t.Errorf("expected request ID with 'internal.' prefix, got %s", reqID)
	}
}

func TestSetupLoggerAttachesSubsystemFields(t *testing.T) {
	logger := SetupLogger(config.Debug, "PKIX Fixtures", "Generator")

	if logger.Logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %s", logger.Logger.GetLevel())
	}
	if logger.Data["service"] != "PKIX Fixtures" {
		t.Errorf("unexpected service field %v", logger.Data["service"])
	}
	if logger.Data["subsystem"] != "Generator" {
		t.Errorf("unexpected subsystem field %v", logger.Data["subsystem"])
	}
}
