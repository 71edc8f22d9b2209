package config

// EnvPrefix scopes every environment variable the app reads.
const EnvPrefix = "CONTENTCREATE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "CONTENTCREATE_APP_ENV"
	EnvPort       = "CONTENTCREATE_APP_PORT"
	EnvDBDSN      = "CONTENTCREATE_DB_DSN"
	EnvDBHost     = "CONTENTCREATE_DB_HOST"
	EnvDBUser     = "CONTENTCREATE_DB_USER"
	EnvDBName     = "CONTENTCREATE_DB_NAME"
	EnvRedisURL   = "CONTENTCREATE_REDIS_URL"
	EnvJWTSecret  = "CONTENTCREATE_JWT_SECRET"
	EnvJWTIssuer  = "CONTENTCREATE_JWT_ISSUER"
	EnvJWTExpMins = "CONTENTCREATE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
