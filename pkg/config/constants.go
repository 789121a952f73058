package config

const (
	EnvPrefix = "CARTSTORE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageBackendMemory = "memory"
	StorageBackendRedis  = "redis"
	StorageBackendSQL    = "sql"

	EnvAppEnv         = "CARTSTORE_APP_ENV"
	EnvPort           = "CARTSTORE_APP_PORT"
	EnvLogLevel       = "CARTSTORE_LOG_LEVEL"
	EnvStorageBackend = "CARTSTORE_STORAGE_BACKEND"

	EnvDBDSN    = "CARTSTORE_DB_DSN"
	EnvDBDriver = "CARTSTORE_DB_DRIVER"
	EnvDBHost   = "CARTSTORE_DB_HOST"
	EnvDBUser   = "CARTSTORE_DB_USER"
	EnvDBName   = "CARTSTORE_DB_NAME"

	EnvRedisURL  = "CARTSTORE_REDIS_URL"
	EnvRedisAddr = "CARTSTORE_REDIS_ADDR"

	EnvProfileSecret = "CARTSTORE_PROFILE_SECRET"
	EnvProfileIssuer = "CARTSTORE_PROFILE_ISSUER"

	EnvCatalogPath = "CARTSTORE_CATALOG_PATH"
	EnvUseSQLite   = "CARTSTORE_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
