package grpcserver

import (
	"context"
	"net"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer answers grpc.health.v1 checks by pinging the database.
type HealthServer struct {
	grpc_health_v1.UnimplementedHealthServer
	DB Pinger
}

// Check reports SERVING while the database answers a ping.
func (h *HealthServer) Check(ctx context.Context, _ *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	st := grpc_health_v1.HealthCheckResponse_SERVING
	if h.DB == nil || h.DB.PingContext(ctx) != nil {
		st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return &grpc_health_v1.HealthCheckResponse{Status: st}, nil
}

// NewServer builds the gRPC server with the health service and a logging interceptor.
func NewServer(db Pinger, log logrus.FieldLogger) *grpc.Server {
	srv := grpc.NewServer(grpc.UnaryInterceptor(NewUnaryLoggingInterceptor(log)))
	grpc_health_v1.RegisterHealthServer(srv, &HealthServer{DB: db})
	return srv
}

// NewUnaryLoggingInterceptor logs every unary call with its status code.
func NewUnaryLoggingInterceptor(log logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.WithFields(logrus.Fields{
			"grpc_method": info.FullMethod,
			"grpc_code":   status.Code(err).String(),
			"latency":     time.Since(start).String(),
		}).Debug("grpc call")
		return resp, err
	}
}

// StartGRPC starts the health server on addr and returns a shutdown function.
func StartGRPC(addr string, db Pinger, log logrus.FieldLogger) (func(context.Context) error, error) {
	if addr == "" {
		addr = ":50051"
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := NewServer(db, log)
	go func() {
		if err := srv.Serve(lis); err != nil {
			log.WithError(err).Error("grpc serve")
		}
	}()

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}
