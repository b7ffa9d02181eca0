package main

import (
	"context"
	"os"

	"github.com/ardnew/complexpr/cli"
	"github.com/ardnew/complexpr/log"
)

func main() {
	if err := cli.Run(context.Background(), os.Exit, os.Args[1:]...); err != nil {
		log.Error("run failed", log.Err(err))
		os.Exit(1)
	}
}
