package bootstrap

import (
	"context"
	"testing"

	"go-vacation/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), config.TracingConfig{Enabled: false}, "test")

	assert.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracingStdout(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), config.TracingConfig{
		Enabled:     true,
		ServiceName: "go-vacation-test",
		SampleRatio: 0,
	}, "test")

	assert.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestTrimScheme(t *testing.T) {
	assert.Equal(t, "collector:4318", trimScheme("http://collector:4318"))
	assert.Equal(t, "collector:4318", trimScheme("https://collector:4318"))
	assert.Equal(t, "collector:4318", trimScheme("collector:4318"))
}
