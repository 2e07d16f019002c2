package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"

	defaultSQLiteDSN = "file:mystore.db?_foreign_keys=on"
)

const (
	EnvAppEnv      = "STOREFRONT_APP_ENV"
	EnvPort        = "STOREFRONT_APP_PORT"
	EnvLogLevel    = "STOREFRONT_LOG_LEVEL"
	EnvAPIBaseURL  = "STOREFRONT_API_BASE_URL"
	EnvTaxRate     = "STOREFRONT_TAX_RATE"
	EnvHTTPTimeout = "STOREFRONT_HTTP_TIMEOUT"
	EnvDBDSN       = "STOREFRONT_DB_DSN"
	EnvDBDriver    = "STOREFRONT_DB_DRIVER"
	EnvDBHost      = "STOREFRONT_DB_HOST"
	EnvDBUser      = "STOREFRONT_DB_USER"
	EnvDBName      = "STOREFRONT_DB_NAME"
	EnvRedisURL    = "STOREFRONT_REDIS_URL"
)

var postgresDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
