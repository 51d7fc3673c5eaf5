package recommendations

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid audit data")
	ErrGenerationFailed       = errors.New("recommendation generation failed")
	ErrNoValidRecommendations = errors.New("no valid recommendations")
)

const (
	ErrorCodeValidation       = "VALIDATION_ERROR"
	ErrorCodeConfiguration    = "CONFIGURATION_ERROR"
	ErrorCodeGenerationFailed = "GENERATION_FAILED"
	ErrorCodeNoRecommendation = "NO_VALID_RECOMMENDATIONS"
	ErrorCodeTimeout          = "GENERATION_TIMEOUT"
	ErrorCodeInternal         = "INTERNAL_ERROR"
)
