package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"StockSense/internal/domain/models"
	"StockSense/internal/domain/repository"
	domsvc "StockSense/internal/domain/service"
	"StockSense/internal/handler/api"
	mid "StockSense/internal/middleware"
	internalrepo "StockSense/internal/repository"
	"StockSense/internal/service/marketfeed"
	"StockSense/internal/service/sentimentfeed"
	"StockSense/internal/usecase"
	pkgcache "StockSense/pkg/cache"
	pkgch "StockSense/pkg/clickhouse"
	"StockSense/pkg/config"
	xhttp "StockSense/pkg/http"
	pkgkafka "StockSense/pkg/kafka"
	applogger "StockSense/pkg/logger"
	"StockSense/pkg/metrics"
	"StockSense/pkg/queue"
	"StockSense/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideRedisClient creates the shared Redis client.
func ProvideRedisClient(cfg *config.Config) (*redis.Client, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return cli, nil
}

// ProvideCache creates a layered cache (memory over Redis) for composites.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	host, port := splitAddr(cfg.Redis.Addr)
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix(keyPrefix(cfg)),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rc), nil
}

// ProvideClickHouseClient creates a ClickHouse client with the trade schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// ReplacingMergeTree on trade id keeps journal appends idempotent under
	// Kafka redelivery.
	db, table := cfg.ClickHouse.Database, journalTable(cfg)
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id String,
			user_id String,
			symbol String,
			action String,
			quantity Int64,
			price Float64,
			cost_basis Float64,
			ts DateTime64(3)
		) ENGINE=ReplacingMergeTree ORDER BY (id)`, table),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML. The
// consumer is only started for the kafka journal backend.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NoopHook{})
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHoldingStore creates the Redis-backed holding store.
func ProvideHoldingStore(cli *redis.Client, cfg *config.Config) repository.HoldingStore {
	return internalrepo.NewRedisHoldingStore(cli, keyPrefix(cfg))
}

// ProvideWatchStore creates the Redis-backed watch store.
func ProvideWatchStore(cli *redis.Client, cfg *config.Config) repository.WatchStore {
	return internalrepo.NewRedisWatchStore(cli, keyPrefix(cfg))
}

// ProvideTradeJournal creates the ClickHouse trade journal.
func ProvideTradeJournal(chClient *pkgch.Client, cfg *config.Config) repository.TradeJournal {
	return internalrepo.NewClickHouseTradeJournal(chClient.DB(), journalTable(cfg))
}

// ProvideTradePublisher creates the Kafka trade publisher.
func ProvideTradePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaTradePublisher(producer, cfg.Kafka.Topic)
}

// ProvideQuoteStream creates the market-data WebSocket stream.
func ProvideQuoteStream(cfg *config.Config) repository.QuoteStream {
	return marketfeed.New(
		cfg.MarketFeed.APIKey,
		cfg.MarketFeed.WebSocketURL,
		cfg.MarketFeed.Symbols,
		cfg.MarketFeed.ReconnectDelay,
		cfg.MarketFeed.PingInterval,
	)
}

// ProvideSentimentProvider creates the HTTP sentiment sample client.
func ProvideSentimentProvider(cfg *config.Config) repository.SentimentProvider {
	return sentimentfeed.New(cfg.SentimentFeed.BaseURL, cfg.SentimentFeed.Timeout, cfg.SentimentFeed.CacheTTL)
}

// ProvideQuoteBoard creates the in-memory quote board.
func ProvideQuoteBoard() *usecase.QuoteBoard {
	return usecase.NewQuoteBoard()
}

// ProvideQuoteProvider exposes the board as the QuoteProvider.
func ProvideQuoteProvider(board *usecase.QuoteBoard) repository.QuoteProvider {
	return board
}

// ProvideQuoteCollector creates the stream collector with a throttling
// pipeline between the WebSocket and the board.
func ProvideQuoteCollector(
	stream repository.QuoteStream,
	board *usecase.QuoteBoard,
	m repository.Metrics,
) *usecase.QuoteCollector {
	pipe := mid.NewQuotePipeline(board, m,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewQuoteCollector(stream, board, m, pipe)
}

// ProvideAggregator creates the sentiment aggregator from configured weights.
func ProvideAggregator(cfg *config.Config) domsvc.Aggregator {
	weights := map[models.SourceKind]float64{
		models.SourceNews:    cfg.Sentiment.Weights.News,
		models.SourceAnalyst: cfg.Sentiment.Weights.Analyst,
		models.SourceSocial:  cfg.Sentiment.Weights.Social,
	}
	return usecase.NewSentimentAggregator(
		usecase.WithWeights(weights),
		usecase.WithStaleness(cfg.Sentiment.Staleness),
	)
}

// ProvideValuer creates the valuation engine.
func ProvideValuer() domsvc.Valuer {
	return usecase.NewValuationEngine()
}

// ProvideLedger creates the holdings ledger.
func ProvideLedger(store repository.HoldingStore, m repository.Metrics) *usecase.HoldingsLedger {
	return usecase.NewHoldingsLedger(store, m)
}

// ProvideSentimentService creates the composite sentiment service.
func ProvideSentimentService(
	provider repository.SentimentProvider,
	agg domsvc.Aggregator,
	cache pkgcache.Service,
	m repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.SentimentService {
	return usecase.NewSentimentService(provider, agg, cache, cfg.Sentiment.CacheTTL, m, logger)
}

// ProvideOrderExecutor creates the order validator and executor.
func ProvideOrderExecutor(
	quotes repository.QuoteProvider,
	ledger *usecase.HoldingsLedger,
	journal repository.TradeJournal,
	pub repository.Publisher,
	m repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.OrderExecutor {
	return usecase.NewOrderExecutor(quotes, ledger, journal, pub, m, logger, cfg.Backend.Type, cfg.Trading.QuoteFreshness)
}

// ProvidePortfolioService creates the portfolio view service.
func ProvidePortfolioService(
	ledger *usecase.HoldingsLedger,
	quotes repository.QuoteProvider,
	journal repository.TradeJournal,
	valuer domsvc.Valuer,
	m repository.Metrics,
) *usecase.PortfolioService {
	return usecase.NewPortfolioService(ledger, quotes, journal, valuer, m)
}

// ProvideWatchlistService creates the watchlist service with a warmup
// publisher when warmup is enabled.
func ProvideWatchlistService(
	store repository.WatchStore,
	cli *redis.Client,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.WatchlistService {
	var warmup queue.QueueService
	if cfg.Warmup.Enabled {
		warmup = queue.NewRedisPublisher(logger, cli, queue.WithKeyPrefix(warmupKeyPrefix(cfg)))
	}
	return usecase.NewWatchlistService(store, warmup, logger)
}

// ProvideWarmupConsumer creates the warmup queue worker.
func ProvideWarmupConsumer(
	sentiment *usecase.SentimentService,
	cli *redis.Client,
	logger *applogger.Logger,
	cfg *config.Config,
) *queue.RedisQueue {
	if !cfg.Warmup.Enabled {
		return nil
	}
	job := usecase.NewSentimentWarmupJob(sentiment, logger)
	return queue.NewRedisConsumer(logger,
		&queue.QueueConfig{Workers: cfg.Warmup.Workers, RetryLimit: 3, RetryDelay: 30 * time.Second},
		cli,
		[]queue.Job{job},
		queue.WithKeyPrefix(warmupKeyPrefix(cfg)),
	)
}

// ProvideKafkaTradesHandler registers the handler for the trades topic.
func ProvideKafkaTradesHandler(journal repository.TradeJournal, m repository.Metrics, cfg *config.Config) *usecase.KafkaTradesHandler {
	return usecase.NewKafkaTradesHandler(cfg.Kafka.Topic, journal, m)
}

// ProvideHTTPHandler groups all route handlers.
func ProvideHTTPHandler(
	logger *applogger.Logger,
	sentiment *usecase.SentimentService,
	portfolio *usecase.PortfolioService,
	executor *usecase.OrderExecutor,
	watchlist *usecase.WatchlistService,
	journal repository.TradeJournal,
	collector *usecase.QuoteCollector,
	cli *redis.Client,
) xhttp.Handler {
	return xhttp.Handlers{
		api.NewSentimentHandler(logger, sentiment),
		api.NewPortfolioHandler(logger, portfolio),
		api.NewTradesHandler(logger, executor, portfolio),
		api.NewWatchlistHandler(logger, watchlist),
		api.NewHealthHandler(journal, collector, cli),
	}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	collector *usecase.QuoteCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTradesHandler,
	chClient *pkgch.Client,
	warmup *queue.RedisQueue,
	executor *usecase.OrderExecutor,
	handler xhttp.Handler,
) *server.App {
	var mh pkgkafka.MessageHandler
	if consumer != nil {
		mh = kh
	}
	return server.New(cfg, logger, collector, consumer, mh, chClient, warmup, executor, handler)
}

func keyPrefix(cfg *config.Config) string {
	if cfg.Redis.KeyPrefix != "" {
		return cfg.Redis.KeyPrefix
	}
	return "stocksense"
}

func warmupKeyPrefix(cfg *config.Config) string {
	if cfg.Warmup.Stream != "" {
		return cfg.Warmup.Stream
	}
	return keyPrefix(cfg) + ":queue"
}

func journalTable(cfg *config.Config) string {
	table := cfg.ClickHouse.Table
	if table == "" {
		table = "trades"
	}
	return cfg.ClickHouse.Database + "." + table
}

func splitAddr(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6379
	}
	return host, port
}
