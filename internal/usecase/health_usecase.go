package usecase

import (
	"context"
	"time"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

// PingFunc checks one dependency. A nil PingFunc means the dependency is not configured.
type PingFunc func(ctx context.Context) error

type healthUsecase struct {
	database PingFunc
	redis    PingFunc
}

func NewHealthUsecase(database, redis PingFunc) HealthUsecase {
	return &healthUsecase{database: database, redis: redis}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{
		"status":   "ok",
		"database": pingStatus(ctx, u.database),
		"redis":    pingStatus(ctx, u.redis),
	}
	if status["database"] != "ok" {
		status["status"] = "degraded"
	}
	return status
}

func pingStatus(ctx context.Context, ping PingFunc) string {
	if ping == nil {
		return "disabled"
	}
	if err := ping(ctx); err != nil {
		return "unavailable"
	}
	return "ok"
}
