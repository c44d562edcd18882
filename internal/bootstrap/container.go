package bootstrap

import (
	"context"
	"log"

	"notescraft-be/internal/config"
	"notescraft-be/internal/controller"
	"notescraft-be/internal/handler"
	"notescraft-be/internal/pkg/logger"
	"notescraft-be/internal/pkg/mailer"
	"notescraft-be/internal/repository/unitofwork"
	"notescraft-be/internal/service"
	"notescraft-be/internal/store"
	"notescraft-be/internal/websocket"

	pktNats "notescraft-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NoteController  controller.INoteController
	AuthController  controller.IAuthController
	OAuthController controller.IOAuthController

	// WebSockets
	WorkspaceHandler *handler.WorkspaceHandler
	WebSocketHub     *websocket.Hub

	// Document store backing the editing sessions
	DocumentStore *store.GormStore
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			cfg.App.ClientURL,
		)
	} else {
		log.Printf("[WARN] SMTP not configured, welcome emails disabled")
		emailService = mailer.NopEmailService{}
	}

	// 2. In-process snapshot bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	docStore := store.NewGormStore(uowFactory, pubSub, sysLogger)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Hub runs single-instance", err)
		rdb = nil
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/workspace.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory, cfg.OAuth)
	noteService := service.NewNoteService(uowFactory, docStore, natsPub)

	if natsSub != nil {
		relay := service.NewEventRelayService(natsSub, wsHub, wsLogger)
		go relay.Start()
	}

	workspaceHandler := handler.NewWorkspaceHandler(wsHub, docStore, wsLogger, cfg.Editor.SaveDebounce)

	return &Container{
		NoteController:   controller.NewNoteController(noteService),
		AuthController:   controller.NewAuthController(authService),
		OAuthController:  controller.NewOAuthController(oauthService),
		WorkspaceHandler: workspaceHandler,
		WebSocketHub:     wsHub,
		DocumentStore:    docStore,
	}
}
