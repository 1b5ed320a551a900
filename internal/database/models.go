package database

// AuditRun is one recorded orchestrator run.
type AuditRun struct {
	ID            int64
	GuildID       string
	Mode          string
	Band          string
	CriticalCount int
	MediumCount   int
	DurationMs    int64
	CreatedAt     int64
}
