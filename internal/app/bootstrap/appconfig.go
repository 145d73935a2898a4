// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging, CORS); AppConfig is
// everything specific to grouphub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: grouphub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// AdminPassword is the shared admin password. Admins are a small fixed
	// set of people sharing one credential; joiners never authenticate.
	AdminPassword string

	// Google OAuth (optional). Only allowlisted emails may sign in as admin.
	GoogleClientID     string
	GoogleClientSecret string
	AdminEmails        []string

	// Base URL for OAuth callbacks (e.g., "https://grouphub.example.com")
	BaseURL string

	// HistoryPageSize caps a single history page.
	HistoryPageSize int64
}
