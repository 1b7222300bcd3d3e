package router

import (
	"time"

	"github.com/anonto42/yatube/backend/internal/handlers"
	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/serializers"
	"github.com/anonto42/yatube/backend/pkg/storage"
	"github.com/anonto42/yatube/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Options carries the dependencies the routes are built from.
type Options struct {
	DB           *gorm.DB
	Media        storage.ObjectStore
	MediaBaseURL string
	JWTSecret    string
	JWTTTL       time.Duration
	FirebaseAuth middleware.IDTokenVerifier // optional; enables Firebase ID tokens
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, opts Options) {
	validator := validators.NewValidator()
	e.Validator = validator
	e.HTTPErrorHandler = handlers.ErrorHandler

	// Health check - always accessible
	e.GET("/health/", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(opts.DB)
	groupRepo := repositories.NewPostgresGroupRepository(opts.DB)
	postRepo := repositories.NewPostgresPostRepository(opts.DB)
	commentRepo := repositories.NewPostgresCommentRepository(opts.DB)
	followRepo := repositories.NewPostgresFollowRepository(opts.DB)

	// --- Authentication: every /api/v1 route sees the caller, if any ---
	jwtVerifier := middleware.NewJWTVerifier(opts.JWTSecret, opts.JWTTTL, userRepo)
	verifiers := []middleware.TokenVerifier{jwtVerifier}
	if opts.FirebaseAuth != nil {
		verifiers = append(verifiers, middleware.NewFirebaseVerifier(opts.FirebaseAuth, userRepo))
		log.Info().Msg("Firebase ID tokens accepted.")
	}
	authn := middleware.Authenticate(verifiers...)
	api := e.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(userRepo, jwtVerifier)
	authHandler.RegisterAuthRoutes(api, authn)
	log.Info().Msg("Auth routes configured.")

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api, authn)
	log.Info().Msg("User routes configured.")

	groupHandler := handlers.NewGroupHandler(groupRepo)
	groupHandler.RegisterGroupRoutes(api, authn)
	log.Info().Msg("Group routes configured.")

	postSerializer := serializers.NewPostSerializer(validator, groupRepo, opts.MediaBaseURL)
	postHandler := handlers.NewPostHandler(postRepo, postSerializer, opts.Media)
	postHandler.RegisterPostRoutes(api, authn)
	log.Info().Msg("Post routes configured.")

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, serializers.NewCommentSerializer(validator))
	commentHandler.RegisterCommentRoutes(api, authn)
	log.Info().Msg("Comment routes configured.")

	followSerializer := serializers.NewFollowSerializer(validator, userRepo, followRepo)
	followHandler := handlers.NewFollowHandler(followRepo, followSerializer)
	followHandler.RegisterFollowRoutes(api, authn)
	log.Info().Msg("Follow routes configured.")

	mediaHandler := handlers.NewMediaHandler(opts.Media)
	mediaHandler.RegisterMediaRoutes(e.Group("/media"))
	log.Info().Msg("Media routes configured.")

	log.Info().Msg("All routes configured.")
}
