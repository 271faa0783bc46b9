// Package config loads typed configuration structs from environment
// variables using caarlos0/env tags, with optional .env file support
// via godotenv for local development.
//
//	type StoreConfig struct {
//		DSN          string        `env:"BILLING_DSN,required"`
//		QueryTimeout time.Duration `env:"BILLING_QUERY_TIMEOUT" envDefault:"5s"`
//	}
//
//	cfg, err := config.Load[StoreConfig]()
package config
