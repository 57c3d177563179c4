package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gatehouse/internal/platform/config"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{ServiceName: "gatehouse"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
