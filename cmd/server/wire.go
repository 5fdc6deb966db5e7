package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	creditservice "credito/internal/credit/service"
	creditstore "credito/internal/credit/store"
	"credito/internal/events"
	eventconsumer "credito/internal/events/consumer"
	kafkapub "credito/internal/events/publishers/kafka"
	"credito/internal/events/publishers/logpub"
	redispub "credito/internal/events/publishers/redis"
	"credito/internal/platform/config"
	"credito/internal/platform/database"
	"credito/internal/platform/kafka"
	"credito/internal/platform/kafka/consumer"
	"credito/internal/platform/metrics"
	platformredis "credito/internal/platform/redis"
	"credito/pkg/platform/circuit"
)

type runner interface {
	Run(ctx context.Context) error
}

// application holds the long-lived resources main wires together.
type application struct {
	store     creditservice.Store
	tx        creditservice.StoreTx
	publisher events.Publisher
	consumers []runner
	checks    map[string]func(context.Context) error
	closers   []io.Closer
}

func (a *application) close(log *slog.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			log.Warn("close failed", "error", err)
		}
	}
}

func wire(ctx context.Context, cfg config.Server, log *slog.Logger, m *metrics.Metrics) (*application, error) {
	app := &application{checks: map[string]func(context.Context) error{}}
	if err := wireStore(ctx, app, cfg, log); err != nil {
		app.close(log)
		return nil, err
	}
	if err := wireEvents(ctx, app, cfg, log, m); err != nil {
		app.close(log)
		return nil, err
	}
	return app, nil
}

func wireStore(ctx context.Context, app *application, cfg config.Server, log *slog.Logger) error {
	if cfg.StoreBackend == config.StoreMemory {
		store := creditstore.NewInMemory()
		app.store = store
		app.tx = creditservice.NewInMemoryTx(store)
		log.Warn("using in-memory credit store; data is lost on restart")
		return nil
	}

	db, err := database.Open(ctx, database.Config{
		URL:          cfg.Database.URL,
		Driver:       cfg.Database.Driver,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	app.closers = append(app.closers, db)
	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("database migrations applied")
	}

	app.store = creditstore.NewPostgres(db)
	app.tx = newCreditPostgresTx(db)
	app.checks["database"] = func(ctx context.Context) error { return pingDB(ctx, db) }
	return nil
}

func pingDB(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

func wireEvents(ctx context.Context, app *application, cfg config.Server, log *slog.Logger, m *metrics.Metrics) error {
	var next events.Publisher
	switch cfg.Events.Backend {
	case config.EventsLog:
		next = logpub.New(log, m)
	case config.EventsRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		app.closers = append(app.closers, client)
		app.checks["redis"] = client.Health
		next = redispub.New(client, redispub.WithLogger(log), redispub.WithMetrics(m))
		app.consumers = append(app.consumers, platformredis.NewSubscriber(client.Client,
			[]string{events.TopicCreditEvents, events.TopicCreditNotifications},
			newRouter(log, m), log))
	default:
		kcfg := kafka.Config{
			Brokers:           cfg.Kafka.Brokers,
			ClientID:          cfg.Kafka.ClientID,
			ReplicationFactor: cfg.Kafka.ReplicationFactor,
		}
		client, err := kafka.NewClient(kcfg)
		if err != nil {
			return err
		}
		if cfg.Kafka.ProvisionTopics {
			if err := kafka.EnsureTopics(ctx, client, kcfg.ReplicationFactor,
				kafka.TopicSpec{Name: events.TopicCreditEvents, Partitions: events.CreditEventsPartitions},
				kafka.TopicSpec{Name: events.TopicCreditNotifications, Partitions: events.CreditNotificationsPartitions},
			); err != nil {
				// The broker may come up later; publishing stays best-effort.
				log.Warn("topic provisioning failed", "error", err)
			}
		}
		pub := kafkapub.New(client, kafkapub.WithLogger(log), kafkapub.WithMetrics(m))
		app.closers = append(app.closers, pub)
		app.checks["kafka"] = func(ctx context.Context) error { return kafka.Ping(ctx, client) }
		next = pub

		if cfg.Consumer.Enabled {
			router := newRouter(log, m)
			groups := []struct {
				group string
				topic string
			}{
				{cfg.Consumer.Group, events.TopicCreditEvents},
				{cfg.Consumer.NotificationGroup, events.TopicCreditNotifications},
			}
			for _, g := range groups {
				c, err := consumer.New(kcfg, g.group, []string{g.topic}, router, consumer.WithLogger(log))
				if err != nil {
					return err
				}
				app.closers = append(app.closers, c)
				app.consumers = append(app.consumers, c)
			}
		}
	}

	cb := circuit.New("credit-events",
		circuit.WithFailureThreshold(cfg.Events.BreakerThreshold),
		circuit.WithCooldown(cfg.Events.BreakerCooldown),
	)
	app.publisher = events.NewBreaker(next, cb, events.WithBreakerLogger(log), events.WithBreakerMetrics(m))
	return nil
}

func newRouter(log *slog.Logger, m *metrics.Metrics) *eventconsumer.Router {
	router := eventconsumer.NewRouter(log)
	router.Register(events.TopicCreditEvents, eventconsumer.NewCreditEventHandler(log, m))
	router.Register(events.TopicCreditNotifications, eventconsumer.NewNotificationHandler(log, m))
	return router
}
