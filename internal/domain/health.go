package domain

import "context"

// HealthReport is returned by the health endpoint
type HealthReport struct {
	Status string `json:"status"`
	Mail   string `json:"mail"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthReport
}
