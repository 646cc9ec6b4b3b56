package grpcserver

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/and161185/streamish/internal/metrics"
)

// ServiceName is the health service name reported alongside the overall "" entry.
const ServiceName = "streamish.v1.Streamish"

// Pinger reports storage reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health keeps the gRPC health status in sync with the store.
type Health struct {
	srv      *health.Server
	store    Pinger
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
}

// NewHealth constructs a Health that pings store every interval.
func NewHealth(store Pinger, log *zap.Logger, interval time.Duration) *Health {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Health{
		srv:      health.NewServer(),
		store:    store,
		log:      log,
		interval: interval,
		timeout:  2 * time.Second,
	}
}

// Check pings the store once and publishes the result.
func (h *Health) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	err := h.store.Ping(ctx)
	if err != nil {
		st = healthpb.HealthCheckResponse_NOT_SERVING
		h.log.Warn("store ping failed", zap.Error(err))
	}
	h.srv.SetServingStatus("", st)
	h.srv.SetServingStatus(ServiceName, st)
	metrics.SetStoreUp(err == nil)
	return err == nil
}

// Run checks the store until ctx is done, then marks every service NOT_SERVING.
func (h *Health) Run(ctx context.Context) {
	h.Check(ctx)
	t := time.NewTicker(h.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			h.srv.Shutdown()
			return
		case <-t.C:
			h.Check(ctx)
		}
	}
}

// New builds a gRPC server with recover and logging interceptors and the health service.
// Reflection is registered when dev is set.
func New(log *zap.Logger, h *Health, dev bool) *grpc.Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoverUnary(log),
			LoggingUnary(log),
		),
	)
	healthpb.RegisterHealthServer(s, h.srv)
	if dev {
		reflection.Register(s)
	}
	return s
}
