// Package health aggregates component checks into one report.
package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means listings still work but uploads do not.
	Degraded Status = "degraded"
	// Unhealthy means the document store is down.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const (
	checkDatabase = "database"
	checkStorage  = "storage"
)

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	storage StorageChecker
	timeout time.Duration
}

// New creates a Service. storage can be nil; timeout <= 0 means no per-check deadline.
func New(db DBPinger, storage StorageChecker, timeout time.Duration) *Service {
	return &Service{db: db, storage: storage, timeout: timeout}
}

// Check runs every check and folds the results.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		checkDatabase: s.run(ctx, s.db.Ping),
	}
	if s.storage != nil {
		checks[checkStorage] = s.run(ctx, s.storage.HealthCheck)
	}

	status := Healthy
	switch {
	case checks[checkDatabase] == CheckError:
		status = Unhealthy
	case checks[checkStorage] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, check func(context.Context) error) CheckResult {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := check(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
