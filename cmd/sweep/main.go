package main

import (
	"flag"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

func main() {
	sweepName := flag.String("sweep", "sweep.yaml", "sweep file in prefabs/")
	workers := flag.Int("workers", 4, "parallel runs")
	logLevel := flag.String("log-level", "info", "logrus level")
	sentryDSN := flag.String("sentry-dsn", "", "report errors to sentry")
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		log.Level = level
	}

	if *sentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: *sentryDSN}); err != nil {
			log.WithError(err).Error("sentry init failed")
		}
	}
	exit := func(code int) {
		sentry.Flush(2 * time.Second)
		os.Exit(code)
	}

	sweep, err := LoadSweep(*sweepName, log)
	if err != nil {
		log.WithError(err).Error("load sweep")
		sentry.CaptureException(err)
		exit(1)
	}
	if *workers > 0 {
		sweep.Workers = *workers
	}

	start := time.Now()
	results, err := sweep.Run()
	if err != nil {
		log.WithError(err).Error("sweep failed")
		sentry.CaptureException(err)
		exit(1)
	}
	log.WithFields(logrus.Fields{"variants": len(results), "took": time.Since(start)}).Info("sweep finished")

	if err := WriteTable(os.Stdout, results); err != nil {
		log.WithError(err).Error("write results")
		exit(1)
	}
	if Failed(results) {
		exit(1)
	}
	exit(0)
}
