// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"github.com/symcast/symcast/symcast/rapi"
	"github.com/symcast/symcast/symcast/rapidcore"
)

type options struct {
	LogLevel     string `long:"log-level" default:"info" description:"log level"`
	Workers      int    `long:"workers" short:"w" default:"4" description:"number of worker processes"`
	Seed         int64  `long:"seed" description:"symbol source seed (0 = time-derived)"`
	PayloadWidth int    `long:"payload-width" default:"100" description:"repeated symbol slots per message"`
	APIHost      string `long:"api-host" default:"127.0.0.1" description:"introspection API bind host"`
	APIPort      int    `long:"api-port" default:"-1" description:"introspection API port (-1 = disabled, 0 = dynamic)"`
}

func main() {
	opts := getCLIArgs()
	rapidcore.SetLogLevel(opts.LogLevel)

	builder := rapidcore.NewBuilder().
		SetNumWorkers(opts.Workers).
		SetPayloadWidth(opts.PayloadWidth)
	if opts.Seed != 0 {
		builder.SetSeed(opts.Seed)
	}

	runner, err := builder.Build()
	if err != nil {
		log.WithError(err).Fatal("Failed to assemble topology")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go signalHandler(cancel)

	if opts.APIPort >= 0 {
		server := rapi.NewServer(opts.APIHost, opts.APIPort, runner)
		if err := server.Listen(); err != nil {
			log.WithError(err).Fatal("Failed to start introspection API server")
		}
		go func() {
			if err := server.Serve(ctx); err != nil && err != context.Canceled {
				log.WithError(err).Warn("Introspection API server exited")
			}
		}()
	}

	if err := runner.Run(ctx); err != nil {
		log.WithError(err).Fatal("Coordination failed")
	}
	cancel()
	log.Info("All workers accepted, exiting")
}

func getCLIArgs() options {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag)
	if _, err := parser.ParseArgs(os.Args[1:]); err != nil {
		log.WithError(err).Fatal("Failed to parse command line arguments:", os.Args)
	}
	return opts
}

// Trap SIGINT and SIGTERM signals and cancel the run
func signalHandler(cancel context.CancelFunc) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	sigReceived := <-sig
	log.WithField("signal", sigReceived.String()).Info("Received signal")
	cancel()
}
