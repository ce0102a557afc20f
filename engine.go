package main

import (
	"context"
	"time"

	"housecup/client"
	"housecup/config"
	"housecup/controller"
	"housecup/localbuffer"
	"housecup/notify"
	"housecup/repository"
	"housecup/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// engine owns every long lived collaborator of one process.
type engine struct {
	cfg          *config.Config
	logger       zerolog.Logger
	store        repository.Store
	hub          *notify.Hub
	sources      []notify.Source
	matches      *service.MatchService
	ledger       *service.LedgerService
	provisioning *service.ProvisioningService
	standings    *service.StandingsService
	profiles     *service.ProfileService
	closers      []func() error
}

func newEngine(cfg *config.Config, logger zerolog.Logger) (*engine, error) {
	e := &engine{cfg: cfg, logger: logger, hub: notify.NewHub()}
	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		e.closers = append(e.closers, sqlDB.Close)
	}
	e.store = repository.NewGormStore(db)

	var publisher notify.Publisher = e.hub
	e.sources = []notify.Source{{Name: "local", Subscriber: e.hub}}
	switch cfg.NotifySource {
	case config.NotifyPostgres:
		e.sources = append(e.sources, notify.Source{
			Name:       "postgres",
			Subscriber: notify.NewPgListener(cfg.DSN(), cfg.NotifyChannel, logger),
		})
	case config.NotifyKafka:
		writer, err := config.GetWriter(cfg)
		if err != nil {
			e.Close()
			return nil, err
		}
		kafkaPublisher := notify.NewKafkaPublisher(writer)
		e.closers = append(e.closers, kafkaPublisher.Close)
		publisher = notify.Publishers{e.hub, kafkaPublisher}
		instanceId := uuid.NewString()
		e.sources = append(e.sources, notify.Source{
			Name: "kafka",
			Subscriber: notify.NewKafkaSubscriber(func() (*kafka.Reader, error) {
				return config.GetReader(cfg, instanceId)
			}, logger),
		})
	}

	var announcer service.SealAnnouncer
	if cfg.DiscordEnabled() {
		discord, err := client.NewDiscordAnnouncer(cfg.DiscordBotToken, cfg.DiscordChannelID)
		if err != nil {
			e.Close()
			return nil, err
		}
		announcer = discord
	}

	var buffer service.OfflineBuffer
	if cfg.OfflineBufferPath != "" {
		b, err := localbuffer.Open(cfg.OfflineBufferPath, logger)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.closers = append(e.closers, b.Close)
		buffer = b
	}

	e.matches = service.NewMatchService(e.store, publisher, logger)
	e.ledger = service.NewLedgerService(e.store, publisher, announcer, cfg.AllowForceSeal, logger)
	e.provisioning = service.NewProvisioningService(e.store, buffer, publisher, logger)
	e.standings = service.NewStandingsService(e.store, logger)
	e.profiles = service.NewProfileService(e.store)
	return e, nil
}

func (e *engine) Services() *controller.Services {
	return &controller.Services{
		Matches:      e.matches,
		Ledger:       e.ledger,
		Provisioning: e.provisioning,
		Standings:    e.standings,
		Profiles:     e.profiles,
		Secret:       []byte(e.cfg.JWTSecret),
		Now:          time.Now,
	}
}

// Bridge connects the change feed to the standings cache. The sweep also
// retries the offline buffer.
func (e *engine) Bridge() *notify.Bridge {
	// Standings are computed from the results ledger alone, so match edits
	// (scores, status, roster) never need a refresh. Resyncs always pass.
	bridge := notify.NewBridge(e.standings, e.cfg.ReconcileInterval, e.cfg.RefreshRate, e.logger, e.sources...).
		WithFilter(notify.Filter{Tables: []notify.Table{notify.TableResults}})
	if e.cfg.OfflineBufferPath != "" {
		bridge.OnSweep(func(ctx context.Context) {
			if _, err := e.provisioning.FlushBuffer(ctx); err != nil {
				e.logger.Debug().Err(err).Msg("offline buffer still pending")
			}
		})
	}
	return bridge
}

func (e *engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.logger.Warn().Err(err).Msg("closing engine")
		}
	}
}
