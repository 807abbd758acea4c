// Package validation holds request bound checks shared by the service layers.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validator.Validate caches struct metadata and is safe for concurrent use.
var validate = validator.New()

// CleanKeywords trims every keyword and drops the blank ones.
func CleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// SplitKeywords parses a comma separated query value.
func SplitKeywords(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return CleanKeywords(strings.Split(csv, ","))
}

// KeywordList requires between 1 and maxKeywords keywords.
func KeywordList(keywords []string, maxKeywords int) error {
	err := validate.Var(keywords, fmt.Sprintf("required,min=1,max=%d,dive,required", maxKeywords))
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
		return fmt.Errorf("maximum %d keywords allowed", maxKeywords)
	}
	return errors.New("at least one keyword is required")
}

// Keyword requires a non-blank keyword.
func Keyword(keyword string) error {
	if err := validate.Var(strings.TrimSpace(keyword), "required"); err != nil {
		return errors.New("keyword is required")
	}
	return nil
}

// Country accepts an empty value or a two letter country code.
func Country(country string) error {
	if err := validate.Var(country, "omitempty,len=2,alpha"); err != nil {
		return fmt.Errorf("invalid country code %q", country)
	}
	return nil
}

// Limit requires 1 <= v <= maxLimit.
func Limit(v, maxLimit int) error {
	if err := validate.Var(v, fmt.Sprintf("min=1,max=%d", maxLimit)); err != nil {
		return fmt.Errorf("limit must be between 1 and %d", maxLimit)
	}
	return nil
}

// Domain requires a non-blank brand domain without a scheme.
func Domain(domain string) error {
	if err := validate.Var(domain, "required,fqdn"); err != nil {
		return fmt.Errorf("invalid brand domain %q", domain)
	}
	return nil
}
