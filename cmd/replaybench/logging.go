package main

import "go.uber.org/zap"

// newLogger constructs a *zap.SugaredLogger for the given environment: a
// human-readable development encoder in "dev", the production JSON encoder
// otherwise.
func newLogger(environment string) *zap.SugaredLogger {
	var base *zap.Logger
	var err error
	if environment == EnvDev {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return base.Sugar()
}
