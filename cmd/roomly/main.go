package main

import (
	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"

	"roomly/internal/auth/gateway"
	authhandler "roomly/internal/auth/handler"
	authservice "roomly/internal/auth/service"
	"roomly/internal/auth/session"
	authvalidator "roomly/internal/auth/validator"
	bookingshandler "roomly/internal/bookings/handler"
	bookingsrepo "roomly/internal/bookings/repository"
	bookingsservice "roomly/internal/bookings/service"
	bookingsvalidator "roomly/internal/bookings/validator"
	groupsrepo "roomly/internal/groups/repository"
	notificationshandler "roomly/internal/notifications/handler"
	notificationsrepo "roomly/internal/notifications/repository"
	notificationsservice "roomly/internal/notifications/service"
	roomshandler "roomly/internal/rooms/handler"
	roomsrepo "roomly/internal/rooms/repository"
	roomsservice "roomly/internal/rooms/service"
	roomsvalidator "roomly/internal/rooms/validator"
	userscache "roomly/internal/users/cache"
	usersrepo "roomly/internal/users/repository"
	usersservice "roomly/internal/users/service"
	"roomly/pkg/app"
	"roomly/pkg/config"
	"roomly/pkg/contracts"
	"roomly/pkg/kafka"
	kafkaconfig "roomly/pkg/kafka/config"
)

const (
	ServiceName        = "roomly"
	NotificationsTopic = "roomly.notifications"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Roomly service")

	handlers, gw, producer := initServices(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}()
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers, gw)
	serverApp.Run()
}

// compositeHandler registers every domain handler on the shared router.
type compositeHandler struct {
	handlers []contracts.Handler
}

func (c *compositeHandler) RegisterRoutes(router *httprouter.Router) {
	for _, h := range c.handlers {
		h.RegisterRoutes(router)
	}
}

func initServices(cfg *config.Config) (contracts.Handler, *gateway.Gateway, *kafka.Producer) {
	sessions := session.NewManager(cfg)

	// Repositories.
	userRepo := usersrepo.NewMongoUserRepository(cfg)
	groupRepo := groupsrepo.NewMongoGroupRepository(cfg)
	roomRepo := roomsrepo.NewMongoRoomRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewBookingLockRepository(cfg)
	notificationRepo := notificationsrepo.NewMongoNotificationRepository(cfg)

	// Identity cache degrades to a no-op when Redis is unreachable.
	var infoCache userscache.Cache = userscache.NoopCache{}
	if cfg.Client.Redis != nil {
		infoCache = userscache.NewRedisCache(cfg.Client.Redis, cfg.UserCacheTTL)
	} else {
		cfg.Log.Warn("Redis unavailable, user info caching disabled")
	}

	// Kafka emission is optional; no brokers means no events.
	var producer *kafka.Producer
	var publisher notificationsservice.EventPublisher
	kafkaCfg := kafkaconfig.Load()
	if kafkaCfg.Enabled() {
		var err error
		producer, err = kafka.NewProducer(kafkaCfg, NotificationsTopic)
		if err != nil {
			cfg.Log.Error("Failed to create Kafka producer, events disabled", "error", err)
		} else {
			publisher = producer
			cfg.Log.Info("Kafka producer initialized", "topic", NotificationsTopic)
		}
	} else {
		cfg.Log.Info("Kafka brokers not configured, event emission disabled")
	}

	// Services.
	roleService := authservice.NewRoleService(groupRepo, cfg)
	userService := usersservice.NewUserService(userRepo, infoCache, cfg)
	authService := authservice.NewAuthService(userRepo, groupRepo, sessions, cfg)
	roomService := roomsservice.NewRoomService(roomRepo, roleService, roomsvalidator.NewRoomValidator(cfg.Log), cfg)
	notificationService := notificationsservice.NewNotificationService(notificationRepo, publisher, cfg)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		roomService,
		userService,
		notificationService,
		roleService,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		cfg,
	)

	handlers := &compositeHandler{
		handlers: []contracts.Handler{
			authhandler.NewAuthHandler(authService, userService, sessions, authvalidator.NewAuthValidator(cfg.Log), cfg.Log),
			roomshandler.NewRoomHandler(roomService, cfg),
			bookingshandler.NewBookingHandler(bookingService, cfg),
			notificationshandler.NewNotificationHandler(notificationService, cfg),
		},
	}

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return handlers, gateway.New(sessions, cfg.Log), producer
}
