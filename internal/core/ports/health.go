package ports

import "context"

// HealthChecker probes one dependency of the service. Name identifies the
// dependency in the health report; Check returns nil while it is reachable.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
