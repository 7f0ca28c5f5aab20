package deps

import (
	"context"
	"fmt"
	"medremind/internal/config"
	c "medremind/internal/core/domain/common"
	"medremind/internal/core/domain/job"
	dl "medremind/internal/core/domain/logging"
	drl "medremind/internal/core/domain/rate_limiter"
	"medremind/internal/core/domain/reminder"
	duow "medremind/internal/core/domain/unit_of_work"
	"medremind/internal/db"
	uow "medremind/internal/db/unit_of_work"
	"medremind/internal/implementations/email"
	eventpublisher "medremind/internal/implementations/event_publisher"
	instancelock "medremind/internal/implementations/instance_lock"
	"medremind/internal/implementations/logging"
	"medremind/internal/implementations/notifier"
	ratelimiter "medremind/internal/implementations/rate_limiter"
	voicegateway "medremind/internal/implementations/voice_gateway"
	"medremind/internal/rabbitmq"
	reminderevents "medremind/internal/rabbitmq/publishers/reminder_events"
	"medremind/internal/scheduler"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/r3labs/sse/v2"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB        *pgxpool.Pool
	Redis     *redis.Client
	Rabbitmq  *rabbitmq.Connection
	SseServer *sse.Server

	Now func() time.Time

	UnitOfWork  duow.UnitOfWork
	RateLimiter drl.RateLimiter

	VoiceGateway *voicegateway.Client
	EmailSender  c.Optional[*email.EmailSender]
	Notifier     reminder.Notifier
	Locker       reminder.InstanceLocker
	Publisher    reminder.EventPublisher

	Scheduler  *scheduler.Scheduler
	jobHandler job.Handler
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	flushSentry := deps.initSentry()
	deps.applyMigrations()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmqConn := deps.initRabbitmqConnection()
	closeSseServer := deps.initSseServer()

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB)
	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)

	deps.initNotifier()
	deps.Locker = instancelock.New()
	closeEventsPublisher := deps.initEventPublisher()

	deps.Scheduler = scheduler.New(
		deps.Logger,
		job.HandlerFunc(deps.handleJob),
		deps.Now,
		scheduler.Options{
			Workers:     deps.Config.SchedulerWorkers,
			QueueSize:   deps.Config.SchedulerQueueSize,
			MaxLateness: deps.Config.SchedulerMaxLateness,
		},
	)

	return deps, func() {
		closeFuncs := []func(){
			closeSseServer,
			closeEventsPublisher,
			closeRabbitmqConn,
			closeRedisClient,
			closePgxPool,
			closeLogger,
			flushSentry,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

// SetJobHandler routes scheduler firings to handler. It must be called before the scheduler runs.
func (deps *Deps) SetJobHandler(handler job.Handler) {
	deps.jobHandler = handler
}

func (deps *Deps) handleJob(ctx context.Context, firing job.Firing) {
	if deps.jobHandler == nil {
		deps.Logger.Error(ctx, "Job handler is not set.", dl.Entry("jobID", firing.ID))
		return
	}
	deps.jobHandler.HandleJob(ctx, firing)
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.LogLevel, deps.Config.SentryDsn != "")
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) applyMigrations() {
	if deps.Config.MigrationsPath == "" {
		deps.Logger.Info(context.Background(), "Migrations path is not set, skip migrations.")
		return
	}
	if err := db.ApplyMigrations(deps.Config.MigrationsPath, deps.Config.PostgresqlURL); err != nil {
		deps.Logger.Error(context.Background(), "Could not apply migrations.", dl.Entry("err", err))
		panic(err)
	}
	deps.Logger.Info(context.Background(), "Migrations have been applied.")
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

func (deps *Deps) initSseServer() func() {
	deps.SseServer = sse.New()
	deps.SseServer.AutoStream = false
	deps.SseServer.AutoReplay = false
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down SSE server.")
		deps.SseServer.Close()
		deps.Logger.Info(context.Background(), "SSE server shut down.")
	}
}

func (deps *Deps) initNotifier() {
	deps.VoiceGateway = voicegateway.New(
		deps.Config.VoiceGatewayURL,
		deps.Config.VoiceGatewayToken,
		deps.Config.VoiceGatewayTimeout,
		deps.Config.VoiceGatewayRatePerSecond,
	)

	var mailer c.Optional[notifier.MissedDoseMailer]
	if deps.Config.IsEmailEnabled() {
		sender := email.NewEmailSender(
			deps.AwsConfig,
			deps.Config.AwsEmailSender,
			deps.Config.AwsEmailCaregiverTemplate,
		)
		deps.EmailSender = c.Some(sender)
		mailer = c.Some[notifier.MissedDoseMailer](sender)
		deps.Logger.Info(context.Background(), "Caregiver e-mails are enabled.")
	} else {
		deps.Logger.Info(context.Background(), "Caregiver e-mails are disabled.")
	}

	deps.Notifier = notifier.New(deps.Logger, deps.VoiceGateway, mailer)
}

func (deps *Deps) initEventPublisher() func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}
	if err := rabbitmqChannel.ExchangeDeclare(deps.Config.RabbitmqEventsExchange, "topic"); err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ exchange.", dl.Entry("err", err))
		panic(err)
	}

	deps.Publisher = eventpublisher.Multi{
		eventpublisher.NewSSE(deps.Logger, deps.SseServer),
		reminderevents.NewRabbitMQ(deps.Logger, rabbitmqChannel, deps.Config.RabbitmqEventsExchange),
	}

	return func() {
		deps.Logger.Info(context.Background(), "Shutting down reminder events publisher.")
		rabbitmqChannel.Close()
		deps.Logger.Info(context.Background(), "Reminder events publisher shut down.")
	}
}

func (deps *Deps) initSentry() func() {
	if deps.Config.SentryDsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              deps.Config.SentryDsn,
			TracesSampleRate: 0.01,
		})
		if err != nil {
			panic(fmt.Sprintf("could not init Sentry: %v\n", err))
		}
		deps.Logger.Info(context.Background(), "Sentry has been successfully initialized.")
		return func() {
			ok := sentry.Flush(5 * time.Second)
			deps.Logger.Info(context.Background(), "Sentry events flushed.", dl.Entry("ok", ok))
		}
	}

	deps.Logger.Info(context.Background(), "Sentry is disabled.")
	return func() {}
}
