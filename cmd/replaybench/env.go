package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// envVars holds REPLAYBENCH_-prefixed environment configuration, loaded on
// top of an optional .env file. Flags set explicitly on the command line
// take precedence over these (see root.go).
type envVars struct {
	Environment string `split_words:"true"`

	Capacity    uint32 `split_words:"true" default:"100"`
	Algorithm   string `split_words:"true" default:"arc"`
	Concurrency int    `split_words:"true" default:"1"`
}

// mustLoadEnv loads envVars, panicking on malformed configuration — the
// same abort-class treatment the replacer package gives caller-contract
// violations (see replacer.Fatal).
func mustLoadEnv() envVars {
	var env envVars

	// A missing .env file is expected in most deployments; only a
	// malformed one should abort startup.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		panic(err)
	}

	envconfig.MustProcess("REPLAYBENCH", &env)

	switch env.Environment {
	case "":
		env.Environment = EnvDev
	case EnvDev, EnvProd:
	default:
		panic("invalid REPLAYBENCH_ENVIRONMENT: " + env.Environment)
	}

	return env
}
