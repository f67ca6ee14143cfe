package config

// EnvPrefix is the envconfig prefix shared by every variable.
const EnvPrefix = "PARTSLANE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "PARTSLANE_APP_ENV"
	EnvDBDSN  = "PARTSLANE_DB_DSN"
	EnvDBHost = "PARTSLANE_DB_HOST"
	EnvDBUser = "PARTSLANE_DB_USER"
	EnvDBName = "PARTSLANE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
