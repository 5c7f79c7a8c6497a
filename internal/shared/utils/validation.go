package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
)

// Payload limits (in bytes)
const (
	MaxInvokeSize  = 32 * 1024 * 1024 // write_file content travels in the payload
	MaxIPCFrame    = 32 * 1024 * 1024
	MaxJSONDepth   = 32
	MaxCommandSize = 128
	MaxPathLength  = 4096
)

// Regular expressions for validation
var (
	// CommandPattern accepts "service.tool" IDs and legacy snake_case names
	CommandPattern  = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)?$`)
	categoryPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// JSONSizeValidator validates JSON size limits
type JSONSizeValidator struct {
	maxSize int
}

// NewJSONSizeValidator creates a new validator with the specified max size
func NewJSONSizeValidator(maxSize int) *JSONSizeValidator {
	return &JSONSizeValidator{maxSize: maxSize}
}

// ValidateSize checks if the data size is within limits
func (v *JSONSizeValidator) ValidateSize(data []byte) error {
	if size := len(data); size > v.maxSize {
		return fmt.Errorf("JSON size %d bytes exceeds maximum %d bytes", size, v.maxSize)
	}
	return nil
}

// ValidateJSON validates size, structure and nesting depth
func (v *JSONSizeValidator) ValidateJSON(data []byte) error {
	if err := v.ValidateSize(data); err != nil {
		return err
	}

	var js interface{}
	if err := sonic.Unmarshal(data, &js); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return ValidateJSONDepth(js, MaxJSONDepth)
}

// ValidateJSONDepth checks if JSON nesting depth is within limits
func ValidateJSONDepth(data interface{}, maxDepth int) error {
	return checkDepth(data, 0, maxDepth)
}

func checkDepth(data interface{}, currentDepth int, maxDepth int) error {
	if currentDepth > maxDepth {
		return fmt.Errorf("JSON nesting depth %d exceeds maximum %d", currentDepth, maxDepth)
	}

	switch v := data.(type) {
	case map[string]interface{}:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	case []interface{}:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}
	return nil
}

// ValidateCommand validates a command name
func ValidateCommand(command string) error {
	if err := ValidateString(command, "command", 1, MaxCommandSize, true); err != nil {
		return err
	}
	if !CommandPattern.MatchString(command) {
		return fmt.Errorf("command %q is not a valid command name", command)
	}
	return nil
}

// ValidatePathArgs rejects string arguments that cannot be file paths.
// Only keys ending in "path" are checked.
func ValidatePathArgs(args map[string]interface{}) error {
	for key, value := range args {
		s, ok := value.(string)
		if !ok || !strings.HasSuffix(strings.ToLower(key), "path") {
			continue
		}
		if err := ValidateString(s, key, 0, MaxPathLength, false); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCategory validates a category field
func ValidateCategory(category string, required bool) error {
	if err := ValidateString(category, "category", 0, 64, required); err != nil {
		return err
	}
	if category != "" && !categoryPattern.MatchString(category) {
		return fmt.Errorf("category must contain only lowercase letters, numbers, and hyphens")
	}
	return nil
}
