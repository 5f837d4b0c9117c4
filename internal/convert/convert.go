// Package convert defines the error type carried by failed value
// conversions, such as reading a typed value out of a tag attribute.
// A ConversionError accumulates every piece of diagnostic context the
// conversion site knows about (converter, locale, pattern, source value,
// target type) and surfaces it to the caller; nothing at this layer
// attempts recovery.
package convert

import (
	"fmt"

	"golang.org/x/text/language"
)

// ConversionError is returned when a value cannot be converted to its
// target type. The setters are chainable so conversion sites can attach
// whatever context they have before returning.
type ConversionError struct {
	message     string
	cause       error
	converter   string
	locale      language.Tag
	localeSet   bool
	pattern     string
	sourceValue interface{}
	targetType  string
}

// NewConversionError creates a conversion error with a message.
func NewConversionError(message string) *ConversionError {
	return &ConversionError{message: message}
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	msg := e.message
	if msg == "" {
		msg = "conversion failed"
	}

	if e.sourceValue != nil {
		msg += fmt.Sprintf(": cannot convert %q", fmt.Sprintf("%v", e.sourceValue))
		if e.targetType != "" {
			msg += " to " + e.targetType
		}
	} else if e.targetType != "" {
		msg += ": target type " + e.targetType
	}

	if e.cause != nil {
		msg += fmt.Sprintf(": %v", e.cause)
	}

	return msg
}

// Unwrap returns the underlying cause error.
func (e *ConversionError) Unwrap() error {
	return e.cause
}

// SetCause records the underlying error and returns the receiver.
func (e *ConversionError) SetCause(cause error) *ConversionError {
	e.cause = cause
	return e
}

// SetConverter records the converter that was used and returns the receiver.
func (e *ConversionError) SetConverter(converter string) *ConversionError {
	e.converter = converter
	return e
}

// SetLocale records the locale used for the conversion and returns the receiver.
func (e *ConversionError) SetLocale(locale language.Tag) *ConversionError {
	e.locale = locale
	e.localeSet = true
	return e
}

// SetPattern records the pattern used for the conversion and returns the receiver.
func (e *ConversionError) SetPattern(pattern string) *ConversionError {
	e.pattern = pattern
	return e
}

// SetSourceValue records the value that could not be converted and returns
// the receiver.
func (e *ConversionError) SetSourceValue(value interface{}) *ConversionError {
	e.sourceValue = value
	return e
}

// SetTargetType records the type the conversion was aiming for and returns
// the receiver.
func (e *ConversionError) SetTargetType(targetType string) *ConversionError {
	e.targetType = targetType
	return e
}

// Converter returns the converter that was used, if recorded.
func (e *ConversionError) Converter() string {
	return e.converter
}

// Locale returns the locale used for the conversion and whether one was
// recorded.
func (e *ConversionError) Locale() (language.Tag, bool) {
	return e.locale, e.localeSet
}

// Pattern returns the pattern used for the conversion, if recorded.
func (e *ConversionError) Pattern() string {
	return e.pattern
}

// SourceValue returns the value that could not be converted.
func (e *ConversionError) SourceValue() interface{} {
	return e.sourceValue
}

// TargetType returns the name of the type the conversion was aiming for.
func (e *ConversionError) TargetType() string {
	return e.targetType
}
