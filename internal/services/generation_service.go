package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/genai"
	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/models"
)

const (
	generationTemperature    = 0.7
	generationMaxTokens      = 4096
	DefaultGenerationTimeout = 60 * time.Second
)

type profileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
}

type entitlementGate interface {
	Acquire(ctx context.Context, userID int64, prefs models.GenerationPreferences) (*EntitlementGrant, error)
	Release(ctx context.Context, logID int64, errorText string) error
	Complete(ctx context.Context, logID int64, summary string) error
}

type programReuser interface {
	FindReusable(ctx context.Context, userID int64, category, fitnessLevel string) (*models.GeneratedProgram, error)
}

type completionProvider interface {
	Complete(ctx context.Context, req genai.Request) (*genai.Completion, error)
}

type programReplacer interface {
	Replace(ctx context.Context, userID int64, prefs models.GenerationPreferences, program *models.GeneratedProgram) (*ReplaceResult, error)
}

// GenerationService orchestrates one program-generation request:
// validation, entitlement, reuse lookup, prompt build, provider call,
// output validation, and replace-semantics persistence. Every failure is
// classified into the closed error taxonomy, and any failure after a credit
// was charged triggers the refund compensating action.
type GenerationService struct {
	profileRepo     profileReader
	entitlements    entitlementGate
	reuse           programReuser
	provider        completionProvider
	store           programReplacer
	providerTimeout time.Duration
}

func NewGenerationService(
	profileRepo profileReader,
	entitlements entitlementGate,
	reuse programReuser,
	provider completionProvider,
	store programReplacer,
	providerTimeout time.Duration,
) *GenerationService {
	if providerTimeout <= 0 {
		providerTimeout = DefaultGenerationTimeout
	}
	return &GenerationService{
		profileRepo:     profileRepo,
		entitlements:    entitlements,
		reuse:           reuse,
		provider:        provider,
		store:           store,
		providerTimeout: providerTimeout,
	}
}

type generationSummary struct {
	ProgramID   int64  `json:"program_id"`
	Workouts    int    `json:"workouts"`
	Exercises   int    `json:"exercises"`
	Reused      bool   `json:"reused"`
	Provider    string `json:"provider,omitempty"`
	TotalTokens int64  `json:"total_tokens,omitempty"`
}

func (s *GenerationService) GenerateProgram(
	ctx context.Context,
	userID int64,
	prefs models.GenerationPreferences,
) (*models.ProgramSummary, *PipelineError) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, localize(NewPipelineError(CodeInvalidUserProfile, "profile not found"), "en")
		}
		return nil, localize(NewPipelineError(CodeDatabaseError, "load profile: "+err.Error()), "en")
	}
	locale := profile.Language()

	warnings, err := ValidateGenerationRequest(profile, prefs)
	if err != nil {
		return nil, localize(ClassifyError(err), locale)
	}

	grant, err := s.entitlements.Acquire(ctx, userID, prefs)
	if err != nil {
		return nil, localize(ClassifyError(err), locale)
	}

	program, reused, pErr := s.obtainProgram(ctx, profile, prefs, warnings)
	if pErr != nil {
		return nil, s.abort(ctx, grant.LogID, locale, pErr)
	}

	result, err := s.store.Replace(ctx, userID, prefs, program)
	if err != nil {
		return nil, s.abort(ctx, grant.LogID, locale, ClassifyError(err))
	}

	summary := generationSummary{
		ProgramID: result.ProgramID,
		Workouts:  result.WorkoutsCreated,
		Exercises: result.ExercisesCreated,
		Reused:    reused,
	}
	summaryJSON, _ := json.Marshal(summary)
	if err := s.entitlements.Complete(ctx, grant.LogID, string(summaryJSON)); err != nil {
		// The program is persisted; a stuck pending log is reconciled out
		// of band rather than failing the request.
		log.Printf("generation log %d not marked completed: %v", grant.LogID, err)
	}

	return &models.ProgramSummary{
		ProgramID:        result.ProgramID,
		Category:         prefs.Category,
		PeriodStart:      prefs.PeriodStart,
		WorkoutsCreated:  result.WorkoutsCreated,
		ExercisesCreated: result.ExercisesCreated,
		CreditsRemaining: grant.CreditsRemaining,
		Message:          SuccessMessage(locale),
	}, nil
}

// obtainProgram returns a validated program either from the reuse engine or
// from a fresh provider call.
func (s *GenerationService) obtainProgram(
	ctx context.Context,
	profile *models.UserProfile,
	prefs models.GenerationPreferences,
	warnings []string,
) (*models.GeneratedProgram, bool, *PipelineError) {
	reusable, err := s.reuse.FindReusable(ctx, profile.UserID, prefs.Category, prefs.FitnessLevel)
	if err != nil {
		// Reuse is an optimization; a lookup failure only costs a
		// generation.
		log.Printf("reuse lookup failed for user %d: %v", profile.UserID, err)
	}
	if reusable != nil {
		return reusable, true, nil
	}

	prompt := BuildPrompt(profile, prefs, warnings)
	callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	completion, err := s.provider.Complete(callCtx, genai.Request{
		SystemPrompt: prompt.System,
		UserPrompt:   prompt.User,
		Temperature:  generationTemperature,
		MaxTokens:    generationMaxTokens,
	})
	if err != nil {
		return nil, false, ClassifyError(err)
	}

	program, err := ParseProgram(completion.Content, prefs.Category)
	if err != nil {
		return nil, false, ClassifyError(err)
	}
	return program, false, nil
}

// abort runs the refund compensating action and returns the classified
// error. The refund uses a detached context so a caller disconnect cannot
// strand the charged credit.
func (s *GenerationService) abort(
	ctx context.Context,
	logID int64,
	locale string,
	pErr *PipelineError,
) *PipelineError {
	releaseCtx := context.WithoutCancel(ctx)
	if err := s.entitlements.Release(releaseCtx, logID, pErr.Error()); err != nil {
		log.Printf("release of generation log %d failed: %v", logID, err)
	}
	return localize(pErr, locale)
}

func localize(pErr *PipelineError, locale string) *PipelineError {
	pErr.Locale = locale
	return pErr
}
