package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/db"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Storage         storage.Storage
	AuthService     *service.AuthService
	UserService     *service.UserService
	PhotoService    *service.PhotoService
	DishService     *service.DishService
	FeedbackService *service.FeedbackService
	ImportService   *service.ImportService
}

// New opens the database, applies pending migrations and wires the services.
func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	photoStorage, err := storage.New(cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Wire(cfg, database, photoStorage), nil
}

// Wire builds the services on top of an open database and storage backend.
func Wire(cfg *config.Config, database *sqlx.DB, photoStorage storage.Storage) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	roleRepository := repository.NewRoleRepository(database)
	dishRepository := repository.NewDishRepository(database)
	photoRepository := repository.NewPhotoRepository(database)
	feedbackRepository := repository.NewFeedbackRepository(database)
	transactor := repository.NewTransactor(database)

	// Services
	authService := service.NewAuthService(
		userRepository,
		roleRepository,
		cfg.SessionSecret,
		cfg.IsProduction(),
		cfg.SessionExpiry,
		cfg.RememberMeExpiry,
	)
	userService := service.NewUserService(userRepository, roleRepository)
	photoService := service.NewPhotoService(photoStorage, cfg.UploadMaxSize)
	dishService := service.NewDishService(
		dishRepository,
		photoRepository,
		feedbackRepository,
		userRepository,
		transactor,
		photoService,
	)
	feedbackService := service.NewFeedbackService(feedbackRepository, dishRepository)
	importService := service.NewImportService(dishService)

	return &App{
		Cfg:             cfg,
		DB:              database,
		Storage:         photoStorage,
		AuthService:     authService,
		UserService:     userService,
		PhotoService:    photoService,
		DishService:     dishService,
		FeedbackService: feedbackService,
		ImportService:   importService,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
