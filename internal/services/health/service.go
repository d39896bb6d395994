package health

import (
	"context"
	"database/sql"
	"time"

	"progresslog-api/internal/shared/storage/db"
)

const pingTimeout = 2 * time.Second

// Status is the liveness payload.
type Status struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// DBStatus is the database connectivity payload.
type DBStatus struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB      *sql.DB
	Version string
	Now     func() time.Time
}

// NewService constructs a new health service. database may be nil.
func NewService(database *sql.DB, version string) *Service {
	return &Service{DB: database, Version: version}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Status returns a simple health payload.
func (s *Service) Status() Status {
	return Status{Status: "healthy", Timestamp: s.now(), Version: s.Version}
}

// Database pings the database. A nil database counts as disconnected.
func (s *Service) Database(ctx context.Context) (DBStatus, error) {
	if err := db.Ping(ctx, s.DB, pingTimeout); err != nil {
		return DBStatus{Status: "unhealthy", Database: "disconnected", Timestamp: s.now()}, err
	}
	return DBStatus{Status: "healthy", Database: "connected", Timestamp: s.now()}, nil
}
