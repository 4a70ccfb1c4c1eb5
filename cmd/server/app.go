package main

import (
	"context"
	"fmt"
	"time"

	"seatshare/internal/config"
	"seatshare/internal/handlers"
	"seatshare/internal/middleware"
	"seatshare/internal/repositories/interfaces"
	"seatshare/internal/repositories/memory"
	"seatshare/internal/repositories/mongodb"
	"seatshare/internal/services"
	"seatshare/pkg/broker"
	"seatshare/pkg/cache"
	"seatshare/pkg/database"
	"seatshare/pkg/logger"
	"seatshare/pkg/mail"
	"seatshare/pkg/sms"
	"seatshare/pkg/storage"
	"seatshare/routes"

	"github.com/gin-gonic/gin"
)

// app holds everything main builds from config, plus the resources to close
// on shutdown.
type app struct {
	cfg    *config.Config
	logger *logger.Logger

	rides      interfaces.RideRepository
	bookings   interfaces.BookingRepository
	users      interfaces.UserRepository
	transactor interfaces.Transactor

	storage  storage.StorageProvider
	limiter  middleware.WindowCounter
	notifier services.NotificationService

	checks  map[string]handlers.HealthCheck
	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{
		cfg:    cfg,
		logger: log,
		checks: make(map[string]handlers.HealthCheck),
	}

	steps := []func(context.Context) error{
		a.initStore,
		a.initRedis,
		a.initStorage,
		a.initNotifications,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) initStore(ctx context.Context) error {
	switch a.cfg.Store.Driver {
	case "memory":
		store := memory.NewStore()
		a.rides, a.bookings, a.users, a.transactor = store.Rides(), store.Bookings(), store.Users(), store.Transactor()
		a.logger.Warn("Using in-memory store; data is lost on restart")
		return nil

	case "", "mongodb":
		db, err := database.NewMongoDB(&database.DatabaseConfig{
			URI:            a.cfg.Database.URI,
			Database:       a.cfg.Database.Database,
			MaxPoolSize:    a.cfg.Database.MaxPoolSize,
			MinPoolSize:    a.cfg.Database.MinPoolSize,
			ConnectTimeout: a.cfg.Database.ConnectTimeout,
			SocketTimeout:  a.cfg.Database.SocketTimeout,
		})
		if err != nil {
			return fmt.Errorf("connect to mongodb: %w", err)
		}
		a.closers = append(a.closers, func() {
			if err := db.Close(); err != nil {
				a.logger.WithError(err).Warn("Failed to disconnect from MongoDB")
			}
		})
		a.checks["mongodb"] = db.Ping

		if a.cfg.Database.AutoMigrate {
			if err := database.NewMigrator(db.Database, a.logger).Up(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}

		a.rides = mongodb.NewRideRepository(db.Database)
		a.bookings = mongodb.NewBookingRepository(db.Database)
		a.users = mongodb.NewUserRepository(db.Database)
		a.transactor = mongodb.NewTransactor(db.Client, a.cfg.Database.Transactions)

		a.logger.WithFields(map[string]interface{}{
			"database":     a.cfg.Database.Database,
			"transactions": a.cfg.Database.Transactions,
		}).Info("Connected to MongoDB")
		return nil

	default:
		return fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
	}
}

func (a *app) initRedis(ctx context.Context) error {
	if !a.cfg.Redis.Enabled {
		a.logger.Info("Redis disabled; rate limiting is off")
		return nil
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         a.cfg.Redis.Host,
		Port:         a.cfg.Redis.Port,
		Password:     a.cfg.Redis.Password,
		DB:           a.cfg.Redis.DB,
		PoolSize:     a.cfg.Redis.PoolSize,
		MinIdleConns: a.cfg.Redis.MinIdleConns,
		DialTimeout:  a.cfg.Redis.DialTimeout,
		ReadTimeout:  a.cfg.Redis.ReadTimeout,
		WriteTimeout: a.cfg.Redis.WriteTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}

	a.limiter = redisCache
	a.checks["redis"] = redisCache.Ping
	a.closers = append(a.closers, func() { _ = redisCache.Close() })
	return nil
}

func (a *app) initStorage(ctx context.Context) error {
	sc := a.cfg.Storage
	opts := storage.Options{
		Provider:  sc.Provider,
		LocalPath: sc.Local.BasePath,
	}
	switch sc.Provider {
	case "aws", "s3":
		opts.Region, opts.Bucket, opts.CDNDomain = sc.AWS.Region, sc.AWS.Bucket, sc.AWS.CDNDomain
	case "gcp", "gcs":
		opts.ProjectID, opts.Bucket, opts.CredsFile, opts.CDNDomain = sc.GCP.ProjectID, sc.GCP.Bucket, sc.GCP.CredentialsFile, sc.GCP.CDNDomain
	}

	provider, err := storage.NewProvider(ctx, opts)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if gcs, ok := provider.(*storage.GCPStorage); ok {
		a.closers = append(a.closers, func() { _ = gcs.Close() })
	}

	a.storage = provider
	a.logger.WithField("provider", sc.Provider).Info("Payment proof storage ready")
	return nil
}

func (a *app) initNotifications(ctx context.Context) error {
	var mailer services.Mailer
	if a.cfg.Notification.EmailEnabled && a.cfg.SMTP.Enabled {
		smtpMailer, err := mail.NewSMTPMailer(mail.Options{
			Host:       a.cfg.SMTP.Host,
			Port:       a.cfg.SMTP.Port,
			Username:   a.cfg.SMTP.Username,
			Password:   a.cfg.SMTP.Password,
			FromEmail:  a.cfg.SMTP.FromEmail,
			FromName:   a.cfg.SMTP.FromName,
			SSL:        a.cfg.SMTP.SSL,
			TLS:        a.cfg.SMTP.TLS,
			AuthMethod: a.cfg.SMTP.AuthMethod,
			Timeout:    a.cfg.SMTP.Timeout,
		})
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}

		probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := smtpMailer.Probe(probeCtx); err != nil {
			a.logger.WithError(err).Warn("SMTP server unreachable; emails may fail")
		} else {
			a.logger.WithField("host", a.cfg.SMTP.Host).Info("SMTP server ready")
		}
		cancel()
		mailer = smtpMailer
	}

	var smsProvider sms.SMSProvider
	if a.cfg.Notification.SMSEnabled {
		provider, err := sms.NewProvider(sms.Options{
			Provider:         a.cfg.SMS.Provider,
			TwilioAccountSID: a.cfg.SMS.Twilio.AccountSID,
			TwilioAuthToken:  a.cfg.SMS.Twilio.AuthToken,
			TwilioFrom:       a.cfg.SMS.Twilio.FromNumber,
			AWSRegion:        a.cfg.SMS.AWS.Region,
			AWSSenderID:      a.cfg.SMS.AWS.SenderID,
		})
		if err != nil {
			return fmt.Errorf("sms: %w", err)
		}
		smsProvider = provider
	}

	var publisher services.EventPublisher
	if a.cfg.Broker.Enabled {
		mq, err := broker.NewRabbitMQ(ctx, broker.Options{
			URL:        a.cfg.Broker.AMQPURL(),
			Exchange:   a.cfg.Broker.Exchange,
			MaxRetries: a.cfg.Broker.MaxRetries,
			RetryDelay: a.cfg.Broker.RetryDelay,
		}, a.logger)
		if err != nil {
			return fmt.Errorf("rabbitmq: %w", err)
		}
		a.checks["rabbitmq"] = func(context.Context) error { return mq.Ping() }
		a.closers = append(a.closers, mq.Close)
		publisher = mq
	}

	a.notifier = services.NewNotificationService(a.users, mailer, smsProvider, publisher, services.NotificationOptions{
		Timeout:     a.cfg.Notification.Timeout,
		Currency:    a.cfg.App.Currency,
		CountryCode: a.cfg.SMS.CountryCode,
		SMSFrom:     a.cfg.SMS.DefaultFrom,
	}, a.logger)
	return nil
}

// Routes builds the services and handlers and registers them on router.
func (a *app) Routes(router *gin.Engine) {
	uploads := services.NewUploadService(a.storage, int64(a.cfg.Storage.MaxFileMiB)<<20, a.cfg.Storage.URLExpiry, a.logger)
	inventory := services.NewInventoryService(a.rides, a.logger)
	rideService := services.NewRideService(a.rides, a.users, a.logger)
	bookingService := services.NewBookingService(a.bookings, a.rides, a.users, a.transactor,
		inventory, a.notifier, uploads, a.logger)

	deps := routes.Dependencies{
		RideHandler:    handlers.NewRideHandler(rideService, a.logger, a.cfg.App.Debug),
		BookingHandler: handlers.NewBookingHandler(bookingService, uploads, a.logger, a.cfg.App.Debug),
		HealthHandler:  handlers.NewHealthHandler(a.cfg.App.Version, a.checks, a.logger),
		JWTSecret:      a.cfg.Security.JWTSecret,
		AllowedOrigins: a.cfg.Security.CORSAllowedOrigins,
		RateLimiter:    a.limiter,
		RateLimit:      a.cfg.Security.RateLimitPerMinute,
		Logger:         a.logger,
	}
	routes.Setup(router, deps)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
