package health

import (
	"context"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type DatabaseReport struct {
	Status       string `json:"status"`
	ResponseTime *int64 `json:"responseTime"`
}

// Report is the body of the service health endpoint.
type Report struct {
	Status    string         `json:"status"`
	Error     string         `json:"error,omitempty"`
	Uptime    float64        `json:"uptime"`
	Timestamp string         `json:"timestamp"`
	Database  DatabaseReport `json:"database"`
	Version   string         `json:"version,omitempty"`
}

// SlowThreshold marks the service degraded when the database answers slower than this.
const SlowThreshold = time.Second

// Probe pings the database and builds the report. ok is false when the database is unreachable.
type Probe struct {
	db      Pinger
	started time.Time
	version string
	now     func() time.Time
}

func NewProbe(db Pinger, version string) *Probe {
	return &Probe{db: db, started: time.Now(), version: version, now: time.Now}
}

func (p *Probe) Report(ctx context.Context) (Report, bool) {
	start := p.now()
	err := p.db.Ping(ctx)
	end := p.now()

	report := Report{
		Uptime:    end.Sub(p.started).Seconds(),
		Timestamp: end.UTC().Format(time.RFC3339Nano),
	}
	if err != nil {
		report.Status = "error"
		report.Error = "Database connection failed"
		report.Database = DatabaseReport{Status: "error"}
		return report, false
	}

	elapsed := end.Sub(start).Milliseconds()
	report.Status = "ok"
	if end.Sub(start) > SlowThreshold {
		report.Status = "degraded"
	}
	report.Database = DatabaseReport{Status: "connected", ResponseTime: &elapsed}
	report.Version = p.version
	return report, true
}
