package health

import "context"

// DBPinger checks document store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// StorageChecker checks photo storage availability.
type StorageChecker interface {
	HealthCheck(ctx context.Context) error
}
