// Package config loads typed configuration from environment variables.
//
// Values come from the process environment, optionally seeded from .env files
// with github.com/joho/godotenv, and are decoded into structs with
// github.com/caarlos0/env/v11 tags:
//
//	type Config struct {
//	    Driver string `env:"DB_DRIVER" envDefault:"sqlite"`
//	    DSN    string `env:"DB_DSN,required"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Every struct type is parsed once per process and served from a cache
// afterwards. Reload and ResetCache exist for tests and for commands that
// change the environment at runtime.
//
// Errors are wrapped with the sentinels in errors.go and can be checked with
// errors.Is.
package config
