// Package app wires configuration, data sources, the planner and the HTTP
// server into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/evswap/api"
	"github.com/kilianp07/evswap/config"
	"github.com/kilianp07/evswap/core/events"
	coremetrics "github.com/kilianp07/evswap/core/metrics"
	coremon "github.com/kilianp07/evswap/core/monitoring"
	"github.com/kilianp07/evswap/core/planner"
	"github.com/kilianp07/evswap/core/selectionlog"
	"github.com/kilianp07/evswap/infra/directions"
	"github.com/kilianp07/evswap/infra/logger"
	"github.com/kilianp07/evswap/infra/metrics"
	"github.com/kilianp07/evswap/infra/monitoring"
	"github.com/kilianp07/evswap/infra/mqtt"
	"github.com/kilianp07/evswap/internal/eventbus"

	// data sources register themselves with the planner
	_ "github.com/kilianp07/evswap/infra/csvsource"
	_ "github.com/kilianp07/evswap/infra/postgres"
)

// Service owns the planner and its collaborators.
type Service struct {
	Planner *planner.Planner

	cfg     *config.Config
	sources planner.Sources
	routes  planner.RouteProvider
	store   selectionlog.Store
	sink    coremetrics.MetricsSink
	bus     *eventbus.TypedBus[events.SelectionEvent]
	log     logger.Logger
}

// New builds a Service from the configuration. Nothing is started until Run.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	s := &Service{cfg: cfg, log: logg, bus: eventbus.NewTyped[events.SelectionEvent]()}
	ok := false
	defer func() {
		if !ok {
			_ = s.Close()
		}
	}()

	if s.sources, err = planner.NewSources(cfg.Source); err != nil {
		return nil, fmt.Errorf("source %s: %w", cfg.Source.Type, err)
	}
	if s.routes, err = directions.New(cfg.Directions, logger.New("directions")); err != nil {
		return nil, fmt.Errorf("directions: %w", err)
	}
	if s.store, err = selectionlog.Open(cfg.SelectionLog.Options()); err != nil {
		return nil, fmt.Errorf("selection log: %w", err)
	}
	if s.sink, err = cfg.Metrics.Build(); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	opts := []planner.Option{
		planner.WithStore(s.store),
		planner.WithBus(s.bus),
		planner.WithMetrics(s.sink),
		planner.WithLogger(logger.New("planner")),
	}
	if s.routes != nil {
		opts = append(opts, planner.WithRouteProvider(s.routes))
	}
	if s.Planner, err = planner.New(cfg.Selection, s.sources, opts...); err != nil {
		return nil, err
	}
	ok = true
	return s, nil
}

// Run serves the HTTP API, records metrics and announces selections over MQTT
// until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)

	if s.cfg.MQTT.Enabled() {
		client, err := mqtt.NewPahoClient(s.cfg.MQTT)
		if err != nil {
			return fmt.Errorf("mqtt client: %w", err)
		}
		defer client.Disconnect()
		mqtt.NewNotifier(client, s.cfg.MQTT, logger.New("mqtt_notifier")).Start(ctx, s.bus)
	}

	srv := &http.Server{
		Addr: s.cfg.HTTP.Addr,
		Handler: api.NewRouter(s.Planner, api.Options{
			Token:  s.cfg.HTTP.Token,
			Health: s.health,
			Logger: logger.New("http"),
		}),
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("http shutdown: %v", err)
	}
	return nil
}

// health pings the data source when it supports it.
func (s *Service) health(ctx context.Context) error {
	if p, ok := s.sources.(interface{ Ping(context.Context) error }); ok {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return p.Ping(ctx)
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	var errs []error
	s.bus.Close()
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	if s.sources != nil {
		errs = append(errs, s.sources.Close())
	}
	if c, ok := s.routes.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	coremon.Flush(2 * time.Second)
	return errors.Join(errs...)
}
