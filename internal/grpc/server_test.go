package grpcserver

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"

	"libraryManagement/internal/testutil"
)

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("down") }

func dialHealth(t *testing.T, db Pinger) grpc_health_v1.HealthClient {
	t.Helper()
	log, _ := test.NewNullLogger()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(db, log)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return grpc_health_v1.NewHealthClient(conn)
}

func TestHealthCheck_Serving(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "grpchealth")
	client := dialHealth(t, d)

	resp, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	want := &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING}
	require.True(t, proto.Equal(want, resp), "got %v", resp)
}

func TestHealthCheck_NotServingWhenDBFails(t *testing.T) {
	client := dialHealth(t, failingPinger{})

	resp, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	require.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}
