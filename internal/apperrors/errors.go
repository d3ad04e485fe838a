package apperrors

import "fmt"

// ErrConfiguration represents a missing or invalid required setting.
// It is raised once at startup and never retried.
type ErrConfiguration struct {
	Setting string
	Reason  string
}

// Error implements the error interface.
func (e *ErrConfiguration) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("configuration error for %s: %s", e.Setting, e.Reason)
	}
	return fmt.Sprintf("configuration error for %s", e.Setting)
}

// Is allows for error checking with errors.Is().
func (e *ErrConfiguration) Is(target error) bool {
	_, ok := target.(*ErrConfiguration)
	return ok
}

// NewConfigurationError creates a new ErrConfiguration.
func NewConfigurationError(setting, reason string) *ErrConfiguration {
	return &ErrConfiguration{Setting: setting, Reason: reason}
}

// ErrNotFound represents an error when a requested resource is not found upstream.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// ErrUpstream is returned on network failures or malformed/empty responses
// from an upstream service.
type ErrUpstream struct {
	Service string
	Target  string
	Err     error
}

// Error implements the error interface.
func (e *ErrUpstream) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s request for %s failed: %v", e.Service, e.Target, e.Err)
	}
	return fmt.Sprintf("%s request for %s failed", e.Service, e.Target)
}

// Unwrap returns the underlying cause.
func (e *ErrUpstream) Unwrap() error { return e.Err }

// Is allows for error checking with errors.Is().
func (e *ErrUpstream) Is(target error) bool {
	_, ok := target.(*ErrUpstream)
	return ok
}

// NewUpstreamError creates a new ErrUpstream.
func NewUpstreamError(service, target string, err error) *ErrUpstream {
	return &ErrUpstream{Service: service, Target: target, Err: err}
}

// ErrParse is returned when a scraped page lacks a structurally required element.
// It signals an upstream layout change and is never silently defaulted.
type ErrParse struct {
	Page    string
	Element string
	Err     error
}

// Error implements the error interface.
func (e *ErrParse) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse %s page: %s: %v", e.Page, e.Element, e.Err)
	}
	return fmt.Sprintf("failed to parse %s page: missing %s", e.Page, e.Element)
}

// Unwrap returns the underlying cause.
func (e *ErrParse) Unwrap() error { return e.Err }

// Is allows for error checking with errors.Is().
func (e *ErrParse) Is(target error) bool {
	_, ok := target.(*ErrParse)
	return ok
}

// NewParseError creates a new ErrParse for a missing element.
func NewParseError(page, element string) *ErrParse {
	return &ErrParse{Page: page, Element: element}
}

// WrapParseError creates a new ErrParse for an element that was present but unreadable.
func WrapParseError(page, element string, err error) *ErrParse {
	return &ErrParse{Page: page, Element: element, Err: err}
}

// ErrCacheMiss signals that a cache entry is absent or unusable. It is internal
// to the store and the services facade and is never returned to facade callers.
type ErrCacheMiss struct {
	Key    string
	Reason string
}

// Error implements the error interface.
func (e *ErrCacheMiss) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cache miss for %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("cache miss for %s", e.Key)
}

// Is allows for error checking with errors.Is().
func (e *ErrCacheMiss) Is(target error) bool {
	_, ok := target.(*ErrCacheMiss)
	return ok
}

// NewCacheMissError creates a new ErrCacheMiss.
func NewCacheMissError(key, reason string) *ErrCacheMiss {
	return &ErrCacheMiss{Key: key, Reason: reason}
}
