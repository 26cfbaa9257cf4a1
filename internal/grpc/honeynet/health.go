package honeynet

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"honeynet-lab/internal/infrastructure/cache"
	"honeynet-lab/internal/infrastructure/database"
)

const serviceName = "honeynet.v1.HoneypotService"

// RegisterHealthServer registers the gRPC health check service. The
// database and cache are both optional; a missing backend does not count
// against health.
func RegisterHealthServer(grpcServer *grpc.Server, db *database.PostgresDB, cache *cache.RedisCache) {
	healthServer := health.NewServer()

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)

	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			status := grpc_health_v1.HealthCheckResponse_SERVING
			if !backendsHealthy(db, cache) {
				status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
			}
			healthServer.SetServingStatus("", status)
			healthServer.SetServingStatus(serviceName, status)
		}
	}()

	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
}

func backendsHealthy(db *database.PostgresDB, c *cache.RedisCache) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if db != nil {
		if err := db.Ping(ctx); err != nil {
			return false
		}
	}
	if c != nil {
		if err := c.Client().Ping(ctx).Err(); err != nil {
			return false
		}
	}
	return true
}
