package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"travel/cfg"
	"travel/internal/bootstrap"
	"travel/pkg/logger"
)

func main() {
	config, err := cfg.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlogger := logger.NewZeroLog(config.AppEnv)

	flightSvc, err := bootstrap.NewFlightService(context.Background(), config, zlogger)
	if err != nil {
		log.Fatal(err)
	}

	lambda.Start(Adapter(flightSvc))
}
