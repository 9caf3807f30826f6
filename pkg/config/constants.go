package config

const EnvPrefix = "medcatalog"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "MEDCATALOG_APP_ENV"
	EnvPort   = "MEDCATALOG_APP_PORT"

	EnvDBDSN  = "MEDCATALOG_DB_DSN"
	EnvDBHost = "MEDCATALOG_DB_HOST"
	EnvDBUser = "MEDCATALOG_DB_USER"
	EnvDBName = "MEDCATALOG_DB_NAME"

	EnvRedisURL = "MEDCATALOG_REDIS_URL"

	EnvImportChunkSize = "MEDCATALOG_IMPORT_CHUNK_SIZE"
	EnvFeedURL         = "MEDCATALOG_FEED_URL"
	EnvFeedPath        = "MEDCATALOG_FEED_PATH"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
