package config

const (
	EnvPrefix = "CREWSTOCK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv         = "CREWSTOCK_APP_ENV"
	EnvPort           = "CREWSTOCK_APP_PORT"
	EnvDBDSN          = "CREWSTOCK_DB_DSN"
	EnvDBHost         = "CREWSTOCK_DB_HOST"
	EnvDBUser         = "CREWSTOCK_DB_USER"
	EnvDBName         = "CREWSTOCK_DB_NAME"
	EnvSQLitePath     = "CREWSTOCK_SQLITE_PATH"
	EnvUseSQLite      = "CREWSTOCK_USE_SQLITE"
	EnvRedisURL       = "CREWSTOCK_REDIS_URL"
	EnvIdentitySecret = "CREWSTOCK_IDENTITY_SECRET"
	EnvIdentityIssuer = "CREWSTOCK_IDENTITY_ISSUER"
	EnvAllowlistTTL   = "CREWSTOCK_ALLOWLIST_CACHE_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
