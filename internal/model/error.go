package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidCategory   = "INVALID_CATEGORY"
	ErrCodeInvalidSort       = "INVALID_SORT"
	ErrCodeInvalidLimit      = "INVALID_LIMIT"
	ErrCodeNoAffiliateLink   = "NO_AFFILIATE_LINK"
	ErrCodeConfiguration     = "CONFIGURATION_ERROR"
	ErrCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	ErrCodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	ErrCodeMissingProductID  = "MISSING_PRODUCT_ID"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrInvalidCategory = NewDomainError(ErrCodeInvalidCategory, "Category must be one of All, Camera, Game or Watch")
	ErrInvalidSort     = NewDomainError(ErrCodeInvalidSort, "Sort must be one of newest, price_asc or price_desc")
	ErrInvalidLimit    = NewDomainError(ErrCodeInvalidLimit, "Limit must be a positive integer")
	ErrNoAffiliateLink = NewDomainError(ErrCodeNoAffiliateLink, "Product has no outbound link")
)

// ConfigurationError reports a required setting that is missing. It is raised
// before any network call is made.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Key)
}

// SourceUnavailableError reports that the product feed could not be loaded.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("product source %q unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}
