package validation

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxFooterLength      = 200

	MinTitleLength       = 1
	MinDescriptionLength = 1
)

// ValidateTitle checks the auction item title.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if len(title) < MinTitleLength {
		return fmt.Errorf("title cannot be empty")
	}

	if len(title) > MaxTitleLength {
		return fmt.Errorf("title cannot exceed %d characters", MaxTitleLength)
	}

	return nil
}

// ValidateDescription checks the auction item description.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)
	if len(description) < MinDescriptionLength {
		return fmt.Errorf("description cannot be empty")
	}

	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("description cannot exceed %d characters", MaxDescriptionLength)
	}

	return nil
}

// ValidateFooter checks the optional card footer text.
func ValidateFooter(footer string) error {
	if len(footer) > MaxFooterLength {
		return fmt.Errorf("footer cannot exceed %d characters", MaxFooterLength)
	}
	return nil
}

// ValidateImageURL checks that a media URL is well formed. Reachability is
// not checked; the chat platform fetches the image itself.
func ValidateImageURL(raw string) error {
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid URL: %s", raw)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https: %s", raw)
	}

	return nil
}

// ValidatePositiveInt checks that a numeric field is positive.
func ValidatePositiveInt(value int64, fieldName string) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	return nil
}
