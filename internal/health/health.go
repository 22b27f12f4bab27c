// Package health provides health check implementations for the server's
// dependencies and an HTTP handler aggregating them.
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// checkTimeout bounds each individual dependency check.
const checkTimeout = 2 * time.Second

// Checker reports whether a single dependency is healthy.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// DBChecker implements health checking for the SQLite database.
type DBChecker struct {
	db *sql.DB
}

// NewDBChecker creates a new database health checker.
func NewDBChecker(db *sql.DB) *DBChecker {
	return &DBChecker{db: db}
}

// HealthCheck pings the database.
func (d *DBChecker) HealthCheck(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// RedisChecker implements health checking for Redis.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// HealthCheck sends a PING command.
func (r *RedisChecker) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// response is the JSON body of the health endpoint.
type response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Handler returns an HTTP handler that runs the named checkers and reports
// 200 when all pass, 503 otherwise. Each check runs with its own timeout so
// one stuck dependency cannot hang the endpoint indefinitely.
func Handler(checkers map[string]Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := response{
			Status: "ok",
			Checks: make(map[string]string, len(checkers)),
		}

		for name, checker := range checkers {
			ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
			err := checker.HealthCheck(ctx)
			cancel()
			if err != nil {
				resp.Status = "degraded"
				resp.Checks[name] = err.Error()
			} else {
				resp.Checks[name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
