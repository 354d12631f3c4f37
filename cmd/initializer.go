package main

import (
	"database/sql"
	"log"
	"log/slog"

	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"

	"chazonBack/internal/config"
	"chazonBack/internal/handlers"
	"chazonBack/internal/repositories"
	"chazonBack/internal/services"
	"chazonBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger

	jwtSecret string
	db        *sql.DB

	userRepo *repositories.UserRepository

	userHandler         *handlers.UserHandler
	categoryHandler     *handlers.CategoryHandler
	serviceHandler      *handlers.ServiceHandler
	bookingHandler      *handlers.BookingHandler
	paymentHandler      *handlers.PaymentHandler
	notificationHandler *handlers.NotificationHandler
	uploadHandler       *handlers.UploadHandler

	eventsHub *BookingEventsHub
}

func initializeApp(db *sql.DB, redisClient *redis.Client, fcmClient *messaging.Client, cfg config.Config, errorLog, infoLog *log.Logger, slogger *slog.Logger) (*application, error) {
	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	categoryRepo := repositories.CategoryRepository{DB: db}
	serviceRepo := repositories.ServiceRepository{DB: db}
	bookingRepo := repositories.BookingRepository{DB: db}
	transactionRepo := repositories.TransactionRepository{DB: db}

	tokens, err := utils.NewManager(cfg.App.JWTSecret)
	if err != nil {
		return nil, err
	}

	gateway, err := services.NewFlutterwaveService(services.FlutterwaveConfig{
		BaseURL:   cfg.Flutterwave.BaseURL,
		PublicKey: cfg.Flutterwave.PublicKey,
		SecretKey: cfg.Flutterwave.SecretKey,
		Logger:    slogger,
	})
	if err != nil {
		return nil, err
	}

	eventsHub := NewBookingEventsHub()

	// Services
	notificationService := &services.NotificationService{Client: fcmClient, DB: db, Logger: slogger}
	userService := &services.UserService{UserRepo: &userRepo, Tokens: tokens}
	categoryService := &services.CategoryService{CategoryRepo: &categoryRepo, Cache: redisClient}
	serviceService := &services.ServiceService{ServiceRepo: &serviceRepo, Cache: redisClient, Logger: slogger}
	bookingService := &services.BookingService{
		BookingRepo:   &bookingRepo,
		ServiceRepo:   &serviceRepo,
		Events:        eventsHub,
		Notifications: notificationService,
	}
	paymentService := &services.PaymentService{
		Gateway:         gateway,
		TransactionRepo: &transactionRepo,
		BookingRepo:     &bookingRepo,
		UserRepo:        &userRepo,
		CallbackURL:     cfg.App.BaseURL + "/payments/verify",
		Logger:          slogger,
		Events:          eventsHub,
		Notifications:   notificationService,
	}

	// Handlers
	userHandler := &handlers.UserHandler{Service: userService}
	categoryHandler := &handlers.CategoryHandler{Service: categoryService}
	serviceHandler := &handlers.ServiceHandler{Service: serviceService}
	bookingHandler := &handlers.BookingHandler{Service: bookingService}
	paymentHandler := &handlers.PaymentHandler{Service: paymentService, FrontendURL: cfg.App.FrontendURL}
	notificationHandler := &handlers.NotificationHandler{Service: notificationService}

	// File storage is optional; without credentials uploads return 503.
	var storage *utils.Storage
	if cfg.S3.AccessKey != "" {
		storage, err = utils.NewStorage(cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Endpoint)
		if err != nil {
			return nil, err
		}
	}
	uploadHandler := &handlers.UploadHandler{Storage: storage}

	return &application{
		errorLog:            errorLog,
		infoLog:             infoLog,
		jwtSecret:           cfg.App.JWTSecret,
		db:                  db,
		userRepo:            &userRepo,
		userHandler:         userHandler,
		categoryHandler:     categoryHandler,
		serviceHandler:      serviceHandler,
		bookingHandler:      bookingHandler,
		paymentHandler:      paymentHandler,
		notificationHandler: notificationHandler,
		uploadHandler:       uploadHandler,
		eventsHub:           eventsHub,
	}, nil
}
