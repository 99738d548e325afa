package config

import "time"

type Config interface {
	EnvConfig
	APIConfig
	KeystoreConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
}

type APIConfig interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
}

type KeystoreConfig interface {
	GetKeystorePath() string
	GetKeystorePassphrase() string
}
