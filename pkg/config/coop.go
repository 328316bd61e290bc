package config

import "time"

// CoopConfig holds cooperative-domain knobs.
type CoopConfig struct {
	// SeedFixtures loads the demo cooperatives at startup (development only).
	SeedFixtures bool

	// ReportCacheTTL bounds how stale the cached national report may get.
	ReportCacheTTL time.Duration

	// JobCodePrefix is the prefix of generated job codes, e.g. "PJ".
	JobCodePrefix string

	// InvoiceDueDays is the payment term applied when issuing an invoice.
	InvoiceDueDays int
}

func loadCoopConfig() CoopConfig {
	return CoopConfig{
		SeedFixtures:   getEnvBool("COOP_SEED_FIXTURES", false),
		ReportCacheTTL: getEnvDuration("COOP_REPORT_CACHE_TTL", 5*time.Minute),
		JobCodePrefix:  getEnv("COOP_JOB_CODE_PREFIX", "PJ"),
		InvoiceDueDays: getEnvInt("COOP_INVOICE_DUE_DAYS", 14),
	}
}
