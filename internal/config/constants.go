package config

const (
	// DefaultDatabasePath is the default path for the audit database
	DefaultDatabasePath = "./agents.db"

	// DefaultOracleBaseURL targets the OpenAI-compatible completions API
	DefaultOracleBaseURL = "https://api.openai.com/v1"

	// DefaultOracleModel is the categorization model used when none is configured
	DefaultOracleModel = "gpt-4o-mini"

	// DefaultExtractorUserAgent identifies article fetches
	DefaultExtractorUserAgent = "Mozilla/5.0 (compatible; cur8t-agents/1.0)"
)
