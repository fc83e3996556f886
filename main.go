package main

import (
	"flag"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging and overlays")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	sceneName := flag.String("scene", "scene.yaml", "scene spec in prefabs/")
	tuningName := flag.String("tuning", "tuning.yaml", "tuning file in prefabs/")
	logLevel := flag.String("log-level", "info", "logrus level")
	sentryDSN := flag.String("sentry-dsn", "", "report errors to sentry")
	stats := flag.String("statsview", "", "serve runtime stats on this address, e.g. localhost:18066")
	watch := flag.Bool("watch", true, "hot reload prefabs from disk")
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		log.WithError(err).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	if *debug {
		level = logrus.DebugLevel
	}
	log.Level = level

	if *sentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: *sentryDSN}); err != nil {
			log.WithError(err).Error("sentry init failed")
		} else {
			defer sentry.Flush(2 * time.Second)
			defer sentry.Recover()
		}
	}

	if *stats != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(*stats))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
		log.WithField("addr", *stats).Info("statsview started")
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("grapplerun")
	ebiten.SetTPS(tps)

	game, err := NewGame(GameOptions{
		Scene:  *sceneName,
		Tuning: *tuningName,
		Debug:  *debug,
		Watch:  *watch,
		Log:    log,
	})
	if err != nil {
		log.WithError(err).Error("failed to start")
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		log.WithError(err).Error("game exited")
		sentry.CaptureException(err)
	}
}
