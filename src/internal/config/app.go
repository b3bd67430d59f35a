package config

import (
	"negotiation-service/src/internal/delivery/http"
	"negotiation-service/src/internal/delivery/http/middleware"
	"negotiation-service/src/internal/delivery/http/route"
	deliveryWs "negotiation-service/src/internal/delivery/ws"
	"negotiation-service/src/internal/gateway/messaging"
	"negotiation-service/src/internal/gateway/realtime"
	"negotiation-service/src/internal/gateway/storage"
	"negotiation-service/src/internal/model"
	"negotiation-service/src/internal/repository"
	"negotiation-service/src/internal/usecase"
	"negotiation-service/src/pkg/databases/mysql"
	kafkaPkgConfluent "negotiation-service/src/pkg/kafka/confluent"
	"negotiation-service/src/pkg/log"
	"negotiation-service/src/pkg/token"
	"negotiation-service/src/pkg/ws"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *viper.Viper
	Producer    kafkaPkgConfluent.Producer
	Redis       redis.UniversalClient
	Hub         *ws.Hub
	Media       *storage.MediaUploader
	Fees        Fees
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
}

func Bootstrap(config *BootstrapConfig) {
	// setup repositories
	userRepository := repository.NewUserRepository(config.DB)
	rideRequestRepository := repository.NewRideRequestRepository(config.DB)
	conversationRepository := repository.NewConversationRepository(config.DB)
	messageRepository := repository.NewMessageRepository(config.DB)
	connectedRideRepository := repository.NewConnectedRideRepository(config.DB)
	settlementRepository := repository.NewSettlementRepository(config.DB)
	notificationRepository := repository.NewNotificationRepository(config.DB)

	// setup gateways
	rideConnectedProducer := messaging.NewRideConnectedProducer(config.Producer, config.Log)
	rideLifecycleProducer := messaging.NewRideLifecycleProducer(config.Producer, config.Log)
	notifier := realtime.NewNotifier(config.Hub, config.Log, notificationRepository, userRepository, config.Redis)

	// setup use cases
	negotiationUsecase := usecase.NewNegotiationUsecase(
		config.Log,
		config.Validate,
		userRepository,
		rideRequestRepository,
		conversationRepository,
		messageRepository,
		notificationRepository,
		notifier,
		config.Media,
		config.AsynqClient,
	)

	rideUsecase := usecase.NewRideUsecase(
		config.Log,
		config.Validate,
		config.Fees.PlatformFeeCents,
		config.Fees.PaymentFeeCents,
		messageRepository,
		conversationRepository,
		rideRequestRepository,
		connectedRideRepository,
		settlementRepository,
		notificationRepository,
		notifier,
		rideConnectedProducer,
		rideLifecycleProducer,
	)

	// setup controllers
	passengerController := http.NewPassengerController(negotiationUsecase, rideUsecase, config.Log)
	driverController := http.NewDriverController(negotiationUsecase, rideUsecase, config.Log)
	wsGateway := deliveryWs.NewGateway(config.Log, config.Hub, token.NewVerifier(config.Config), negotiationUsecase)

	// setup middleware and workers
	authMiddleware := middleware.VerifyBearer(config.Config)
	config.Async.HandleFunc(model.TypeBroadcastRideRequest, negotiationUsecase.HandleBroadcastRideRequest)

	routeConfig := route.RouteConfig{
		App:                 config.App,
		PassengerController: passengerController,
		DriverController:    driverController,
		WsGateway:           wsGateway,
		AuthMiddleware:      authMiddleware,
	}
	routeConfig.Setup()
}
