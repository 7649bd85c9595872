package observability_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"rollup-blog-service/internal/infrastructure/observability"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := observability.InitTracing(context.Background(), observability.TracingConfig{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	ctx, span := observability.StartSpan(context.Background(), "test.span", attribute.String("k", "v"))
	assert.NotNil(t, ctx)
	observability.EndSpan(span, errors.New("boom"))
}
