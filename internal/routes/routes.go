package routes

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/config"
	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/genai"
	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/handlers"
	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/middleware"
	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/repository"
	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	userProfileRepo := repository.NewUserProfileRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	logRepo := repository.NewGenerationLogRepository(db)
	programRepo := repository.NewWeeklyProgramRepository(db)

	openaiProvider, err := genai.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if err != nil {
		return fmt.Errorf("configure generation provider: %w", err)
	}
	providerChain := genai.NewChain(openaiProvider)

	entitlementService := services.NewEntitlementService(db, creditRepo, logRepo, cfg.DailyCategoryCap)
	reuseService := services.NewProgramReuseService(programRepo)
	programStore := services.NewProgramStore(db)
	generationService := services.NewGenerationService(
		userProfileRepo,
		entitlementService,
		reuseService,
		providerChain,
		programStore,
		cfg.GenerationTimeout,
	)

	generationHandler := handlers.NewGenerationHandler(generationService)
	programHandler := handlers.NewProgramHandler(programRepo)
	creditHandler := handlers.NewCreditHandler(creditRepo)

	api := app.Group("/api")
	protected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	programs := protected.Group("/programs")
	programs.Post("/generate", generationHandler.GenerateProgram)
	programs.Get("/current", programHandler.GetCurrentProgram)

	protected.Get("/credits", creditHandler.GetCredits)

	return nil
}
