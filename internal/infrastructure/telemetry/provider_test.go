package telemetry_test

import (
	"context"
	"testing"

	"github.com/erp/pos-reports/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func disabledConfig() telemetry.Config {
	return telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:4317",
		SamplingRatio:     1.0,
		ServiceName:       "pos-reports-test",
	}
}

func TestProviders_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, disabledConfig(), logger)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := telemetry.NewMeterProvider(ctx, disabledConfig(), logger)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := telemetry.NewLoggerProvider(ctx, disabledConfig(), logger)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestNewZapOTELCore_DisabledIsNop(t *testing.T) {
	lp, err := telemetry.NewLoggerProvider(context.Background(), disabledConfig(), zap.NewNop())
	require.NoError(t, err)

	core := telemetry.NewZapOTELCore("pos-reports", lp, zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))

	assert.False(t, telemetry.NewZapOTELCore("pos-reports", nil, zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
}

func TestNewBridgedLogger_KeepsBaseOutput(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := telemetry.NewBridgedLogger(zap.New(core), zapcore.NewNopCore())

	logger.Info("report generated", zap.String("report_type", "ventas"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "report generated", logs.All()[0].Message)
}
