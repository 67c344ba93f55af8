package config

const EnvPrefix = "PROPERTYHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"

	DefaultSQLiteDSN = "propertyhub.db"
)

const (
	EnvAppEnv            = "PROPERTYHUB_APP_ENV"
	EnvPort              = "PROPERTYHUB_APP_PORT"
	EnvDBDSN             = "PROPERTYHUB_DB_DSN"
	EnvDBDriver          = "PROPERTYHUB_DB_DRIVER"
	EnvDBHost            = "PROPERTYHUB_DB_HOST"
	EnvDBUser            = "PROPERTYHUB_DB_USER"
	EnvDBName            = "PROPERTYHUB_DB_NAME"
	EnvRedisURL          = "PROPERTYHUB_REDIS_URL"
	EnvSessionSecret     = "PROPERTYHUB_SESSION_SECRET"
	EnvSessionTTLMinutes = "PROPERTYHUB_SESSION_TTL_MINUTES"
	EnvDisplayTimezone   = "PROPERTYHUB_DISPLAY_TIMEZONE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
