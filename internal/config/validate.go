package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// configValidator names fields by their koanf key so errors point at the
// key a user actually wrote.
var configValidator = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("koanf"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}()

// ValidateYAMLSyntax checks if the YAML file has valid syntax.
// A missing file is valid; the layer is simply skipped.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	switch {
	case err == nil:
		return ValidateYAMLSyntaxFromBytes(data, filePath)
	case os.IsNotExist(err):
		return nil
	case os.IsPermission(err):
		return &ValidationError{FilePath: filePath, Message: "permission denied"}
	default:
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
}

// ValidateYAMLSyntaxFromBytes checks if YAML data has valid syntax.
// Blank data is valid.
func ValidateYAMLSyntaxFromBytes(data []byte, filePath string) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var node yaml.Node
	err := yaml.Unmarshal(data, &node)
	if err == nil {
		return nil
	}

	var typeError *yaml.TypeError
	if errors.As(err, &typeError) {
		return &ValidationError{
			FilePath: filePath,
			Message:  strings.Join(typeError.Errors, "; "),
		}
	}

	line, column, message := parseYAMLError(err.Error())
	return &ValidationError{
		FilePath: filePath,
		Line:     line,
		Column:   column,
		Message:  message,
	}
}

// ValidateConfigValues checks cfg against its struct tags and reports the
// first offending key.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	err := configValidator.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{
			FilePath: filePath,
			Field:    fieldErrs[0].Field(),
			Message:  describeFieldError(fieldErrs[0]),
		}
	}
	return &ValidationError{FilePath: filePath, Message: err.Error()}
}

// parseYAMLError splits a yaml.v3 message such as
// "yaml: line 5: could not find expected ':'" into its position and text.
// Column defaults to 1 when only a line is present.
func parseYAMLError(msg string) (line, column int, text string) {
	if !strings.HasPrefix(msg, "yaml:") {
		return 0, 0, msg
	}
	text = msg
	if idx := strings.LastIndex(msg, ": "); idx > 0 {
		text = msg[idx+2:]
	}

	if n, _ := fmt.Sscanf(msg, "yaml: line %d: column %d:", &line, &column); n == 2 {
		return line, column, text
	}
	if n, _ := fmt.Sscanf(msg, "yaml: line %d:", &line); n == 1 {
		return line, 1, text
	}
	return 0, 0, text
}

func describeFieldError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	case "url":
		return "must be a valid URL"
	case "contains":
		return fmt.Sprintf("must contain %q", fieldErr.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}
