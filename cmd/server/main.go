package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"scraper/pkg/api"
	"scraper/pkg/config"
	"scraper/pkg/counter"
	"scraper/pkg/counter/filedb"
	"scraper/pkg/counter/memdb"
	"scraper/pkg/counter/mongo"
	"scraper/pkg/counter/postgres"
	"scraper/pkg/reddit"
)

func main() {
	var (
		configPath string
		envPath    string
		httpAddr   string
		logLevel   string
		staticDir  string
		backend    string
	)

	flag.StringVar(&configPath, "config", "cmd/server/config.toml", "Path to TOML config file")
	flag.StringVar(&envPath, "env", ".env", "Path to .env file")
	flag.StringVar(&httpAddr, "http", "", "HTTP server address in the form 'host:port'.")
	flag.StringVar(&logLevel, "log", "", "Log level: debug, info, warn, error.")
	flag.StringVar(&staticDir, "static", "", "Directory with the front page and its assets.")
	flag.StringVar(&backend, "counter", "", "Visitor counter backend: file, memory, postgres, mongo.")
	flag.Parse()

	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		log.Fatalf("[server] failed to load configuration: %v", err)
	}

	// Override config with flags if set
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if staticDir != "" {
		cfg.StaticDir = staticDir
	}
	if backend != "" {
		cfg.CounterBackend = backend
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[server] %v", err)
	}

	config.SetLogLevel(cfg.LogLevel)

	timeout, _ := cfg.Timeout()
	scraper := reddit.New(reddit.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		UserAgent:    cfg.UserAgent,
		Timeout:      timeout,
	})
	if scraper.Credentialed() {
		log.Info("[server] using authenticated upstream API")
	} else {
		log.Info("[server] client credentials not set, using public upstream endpoints")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	visits, closeCounter, err := newCounter(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("[server] failed to initialize visitor counter: %v", err)
	}

	var kafkaWriter *kafka.Writer
	if cfg.KafkaEnabled() {
		kafkaWriter = &kafka.Writer{
			Addr:      kafka.TCP(cfg.KafkaAddr),
			Topic:     cfg.KafkaTopic,
			BatchSize: cfg.KafkaBatch,
		}
		err := createTopic(kafkaWriter.Addr.String(), kafkaWriter.Topic)
		if err != nil {
			log.Warnf("[server] failed to create Kafka topic: %v", err)
		}
	} else {
		log.Warnf("[server] kafka was not configured, logs will not be sent to Kafka")
	}

	api := api.New(api.Info{
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Env:         cfg.Env,
		StaticDir:   cfg.StaticDir,
	}, scraper, visits, kafkaWriter)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Infof("[server] starting on port %v", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] failed to start: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("[server] HTTP server shutdown error: %v", err)
	} else {
		log.Info("[server] HTTP server shut down gracefully")
	}

	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			log.Errorf("[server] failed to close Kafka writer: %v", err)
		}
	}

	closeCounter(shutdownCtx)
}

// newCounter opens the configured visitor counter. The returned func releases it.
func newCounter(ctx context.Context, cfg *config.Config) (counter.Counter, func(context.Context), error) {
	noop := func(context.Context) {}

	switch cfg.CounterBackend {
	case config.CounterMemory:
		log.Warn("[server] visitor count is kept in memory and will reset on restart")
		return memdb.New(), noop, nil

	case config.CounterPostgres:
		pgConf := postgres.ConfigFromEnv()
		if !pgConf.IsValid() {
			return nil, nil, fmt.Errorf("%w: incomplete postgres settings %v", counter.ErrConnectDB, pgConf)
		}
		db, err := postgres.New(ctx, pgConf.ConString())
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("%w: %v", counter.ErrDBNotResponding, err)
		}
		log.Infof("[server] visitor count stored in postgres %v", pgConf)
		return db, func(context.Context) {
			db.Close()
			log.Info("[server] disconnected from DB")
		}, nil

	case config.CounterMongo:
		mConf := mongo.ConfigFromEnv()
		if err := mConf.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", counter.ErrConnectDB, err)
		}
		db, err := mongo.New(ctx, &mConf)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(ctx); err != nil {
			db.Close(ctx)
			return nil, nil, fmt.Errorf("%w: %v", counter.ErrDBNotResponding, err)
		}
		log.Infof("[server] visitor count stored in mongo %v", mConf)
		return db, func(ctx context.Context) {
			db.Close(ctx)
			log.Info("[server] disconnected from DB")
		}, nil

	default:
		log.Infof("[server] visitor count stored in %s", cfg.CounterPath)
		return filedb.New(cfg.CounterPath), noop, nil
	}
}

func createTopic(broker, topic string) error {
	conn, err := kafka.DialContext(context.Background(), "tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
}
