package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cosmicflight/cosmic"
)

var (
	scenarioPath = flag.String("scenario", "", "path to the YAML scenario file (required)")
	rate         = flag.Float64("rate", 0, "tick rate in Hz (0 = from config)")
	csvExport    = flag.Bool("csv", false, "export per-tick telemetry as CSV")
	metricsAddr  = flag.String("metrics", "", "address to serve Prometheus metrics on (empty = disabled)")
)

func main() {
	flag.Parse()
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))
	if *scenarioPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	scenario, err := cosmic.LoadScenario(*scenarioPath, logger)
	if err != nil {
		logger.Log("level", "crit", "err", err)
		os.Exit(1)
	}
	config := cosmic.LoadConfig()
	tickRate := config.TickRate
	if *rate > 0 {
		tickRate = *rate
	}

	session, err := cosmic.NewFlightSession(scenario.System, scenario.Mission, scenario.Craft, cosmic.NewEngine(config, logger), logger)
	if err != nil {
		logger.Log("level", "crit", "err", err)
		os.Exit(1)
	}

	if *metricsAddr != "" {
		registry := prometheus.NewRegistry()
		session.SetMetrics(cosmic.NewMetrics(registry))
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				logger.Log("level", "crit", "err", err)
			}
		}()
	}

	stateChan := make(chan cosmic.SessionState, 1024)
	exportDone := make(chan struct{})
	go func() {
		cosmic.StreamStates(cosmic.ExportConfig{Filename: scenario.Mission.ID, AsCSV: *csvExport, Timestamp: true}, stateChan)
		close(exportDone)
	}()
	session.SetPublisher(func(st cosmic.SessionState) { stateChan <- st })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := session.Run(ctx, nil, tickRate)
	close(stateChan)
	<-exportDone

	if runErr != nil && runErr != context.Canceled {
		logger.Log("level", "crit", "err", runErr)
		os.Exit(1)
	}
	fmt.Printf("mission %s: %s", scenario.Mission.ID, scenario.Mission.Status)
	if scenario.Mission.Status == cosmic.Failed {
		fmt.Printf(" (%s)", scenario.Mission.FailureReason)
	}
	fmt.Printf(" after %.1f s, %d/%d objectives, %.1f L burned\n",
		scenario.Mission.ElapsedTime, scenario.Mission.ObjectivesCompleted, len(scenario.Mission.Objectives), scenario.Mission.FuelConsumed)
}
