package grpc_server_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	grpc_server "rollup-blog-service/internal/infrastructure/inbound/grpc"
	"rollup-blog-service/internal/infrastructure/logger"
	prometheus_metrics "rollup-blog-service/internal/infrastructure/outbound/metrics/prometheus"
)

type fakeDependency struct {
	err error
}

func (f *fakeDependency) Ping(ctx context.Context) error {
	return f.err
}

func TestServer_HealthCheck(t *testing.T) {
	ledgerDep := &fakeDependency{}
	storeDep := &fakeDependency{}
	server := grpc_server.NewServer(map[string]grpc_server.Dependency{
		"ledger":  ledgerDep,
		"content": storeDep,
	}, "127.0.0.1", 0, time.Minute, logger.New("test"), prometheus_metrics.NewPrometheusMetricsProvider())

	lis := bufconn.Listen(1 << 20)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(func() { _ = server.Shutdown() })

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	client := healthpb.NewHealthClient(conn)
	ctx := context.Background()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus(), "not serving before the first check")

	assert.True(t, server.CheckDependencies(ctx))
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	ledgerDep.err = errors.New("dial tcp: connection refused")
	assert.False(t, server.CheckDependencies(ctx))

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: "content"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
