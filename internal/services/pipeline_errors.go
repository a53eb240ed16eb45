package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit/internal/genai"
)

// Closed taxonomy of generation-pipeline error codes. Every failure mode of
// the pipeline maps to exactly one of these.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeInvalidUserProfile  = "INVALID_USER_PROFILE"
	CodeWorkoutTypeInvalid  = "WORKOUT_TYPE_INVALID"
	CodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	CodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	CodeProviderOverloaded  = "PROVIDER_OVERLOADED"
	CodeAIGenerationFailed  = "AI_GENERATION_FAILED"
	CodeDatabaseError       = "DATABASE_ERROR"
	CodeUnknownError        = "UNKNOWN_ERROR"
)

// PipelineError is the typed error carried through the generation pipeline.
// Detail is for server-side logs only and is never returned to the caller.
// ResetAt is set only for RATE_LIMIT_EXCEEDED and carries the next local
// midnight, when the daily cap resets.
type PipelineError struct {
	Code    string
	Detail  string
	Locale  string
	ResetAt time.Time
}

func (e *PipelineError) Error() string {
	if e.Detail == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func NewPipelineError(code, detail string) *PipelineError {
	return &PipelineError{Code: code, Detail: detail}
}

var errorStatuses = map[string]int{
	CodeValidationError:     http.StatusBadRequest,
	CodeInvalidUserProfile:  http.StatusBadRequest,
	CodeWorkoutTypeInvalid:  http.StatusBadRequest,
	CodeInsufficientCredits: http.StatusPaymentRequired,
	CodeRateLimitExceeded:   http.StatusTooManyRequests,
	CodeProviderOverloaded:  http.StatusServiceUnavailable,
	CodeAIGenerationFailed:  http.StatusBadGateway,
	CodeDatabaseError:       http.StatusInternalServerError,
	CodeUnknownError:        http.StatusInternalServerError,
}

var errorMessages = map[string]map[string]string{
	CodeValidationError: {
		"en": "The request is invalid. Please check your preferences and try again.",
		"es": "La solicitud no es válida. Revisa tus preferencias e inténtalo de nuevo.",
	},
	CodeInvalidUserProfile: {
		"en": "Your profile is incomplete. Please finish onboarding before generating a program.",
		"es": "Tu perfil está incompleto. Completa el registro antes de generar un programa.",
	},
	CodeWorkoutTypeInvalid: {
		"en": "The selected workout type is not supported.",
		"es": "El tipo de entrenamiento seleccionado no es compatible.",
	},
	CodeInsufficientCredits: {
		"en": "You have no generation credits left.",
		"es": "No te quedan créditos de generación.",
	},
	CodeRateLimitExceeded: {
		"en": "Daily generation limit reached. Please try again tomorrow.",
		"es": "Has alcanzado el límite diario de generación. Inténtalo de nuevo mañana.",
	},
	CodeProviderOverloaded: {
		"en": "The generation service is busy right now. Please try again in a few minutes.",
		"es": "El servicio de generación está ocupado. Inténtalo de nuevo en unos minutos.",
	},
	CodeAIGenerationFailed: {
		"en": "We could not generate a valid program. Please try again.",
		"es": "No pudimos generar un programa válido. Inténtalo de nuevo.",
	},
	CodeDatabaseError: {
		"en": "Something went wrong while saving your program. Please try again.",
		"es": "Algo salió mal al guardar tu programa. Inténtalo de nuevo.",
	},
	CodeUnknownError: {
		"en": "An unexpected error occurred. Please try again.",
		"es": "Ocurrió un error inesperado. Inténtalo de nuevo.",
	},
}

var successMessages = map[string]string{
	"en": "Your program is ready.",
	"es": "Tu programa está listo.",
}

// HTTPStatus returns the HTTP-equivalent status for a taxonomy code.
func HTTPStatus(code string) int {
	if status, ok := errorStatuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LocalizedMessage returns the user-facing text for a taxonomy code, falling
// back to English for unknown locales.
func LocalizedMessage(code, locale string) string {
	messages, ok := errorMessages[code]
	if !ok {
		messages = errorMessages[CodeUnknownError]
	}
	if message, ok := messages[locale]; ok {
		return message
	}
	return messages["en"]
}

func SuccessMessage(locale string) string {
	if message, ok := successMessages[locale]; ok {
		return message
	}
	return successMessages["en"]
}

// ClassifyError maps any pipeline failure onto the closed taxonomy. Already
// typed errors pass through untouched; provider overloads and everything
// else are bucketed so internals never leak to the caller.
func ClassifyError(err error) *PipelineError {
	if err == nil {
		return nil
	}
	var pipelineErr *PipelineError
	if errors.As(err, &pipelineErr) {
		return pipelineErr
	}
	if errors.Is(err, genai.ErrOverloaded) {
		return NewPipelineError(CodeProviderOverloaded, err.Error())
	}
	if errors.Is(err, genai.ErrEmptyCompletion) || errors.Is(err, context.DeadlineExceeded) {
		return NewPipelineError(CodeAIGenerationFailed, err.Error())
	}
	return NewPipelineError(CodeUnknownError, err.Error())
}
