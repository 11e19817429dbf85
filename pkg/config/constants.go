package config

const (
	EnvPrefix = "chumma"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "CHUMMA_DB_DSN"
	EnvDBHost = "CHUMMA_DB_HOST"
	EnvDBUser = "CHUMMA_DB_USER"
	EnvDBName = "CHUMMA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
