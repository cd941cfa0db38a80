// util/validation_util.go

package util

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/dev-mohitbeniwal/fundwire/model"
)

// Identifier formats from the message schema. A LEI is 18 alphanumeric
// characters plus a 2-digit checksum; an OeNB-ID is 2 to 8 digits; an ISIN
// is 2 letters, 9 alphanumeric characters and 1 check digit.
var (
	leiPattern    = regexp.MustCompile(`^[A-Za-z0-9]{18}[0-9]{2}$`)
	oenbIDPattern = regexp.MustCompile(`^[0-9]{2,8}$`)
	isinPattern   = regexp.MustCompile(`^[A-Za-z]{2}[A-Za-z0-9]{9}[0-9]$`)
)

type ValidationUtil struct {
	validate *validator.Validate
}

func NewValidationUtil() *ValidationUtil {
	v := validator.New()
	// Registration only fails for blank tags, which are all literals here.
	_ = v.RegisterValidation("lei", func(fl validator.FieldLevel) bool {
		return leiPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("oenbid", func(fl validator.FieldLevel) bool {
		return oenbIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("isin", func(fl validator.FieldLevel) bool {
		return isinPattern.MatchString(fl.Field().String())
	})
	return &ValidationUtil{validate: v}
}

// ValidateAccessRule runs the mandatory-field checks of the message schema
// in their fixed order and accumulates every failure into one report; the
// caller shows the complete list, not just the first problem.
func (v *ValidationUtil) ValidateAccessRule(rule *model.AccessRule) error {
	var result *multierror.Error

	if rule.ID == "" {
		result = multierror.Append(result, fmt.Errorf("rule id must be present"))
	}
	if rule.ContentType == "" {
		result = multierror.Append(result, fmt.Errorf("content type must be present"))
	}
	if len(rule.Receivers) == 0 {
		result = multierror.Append(result, fmt.Errorf("at least one access receiver is required"))
	}
	if len(rule.Profiles) == 0 {
		result = multierror.Append(result, fmt.Errorf("at least one profile is required"))
	}
	if rule.ScopeObjectCount() == 0 {
		result = multierror.Append(result, fmt.Errorf(
			"at least one access object is required: a LEI, an OeNB-ID, a segment ISIN or a share-class ISIN"))
	}

	for _, lei := range rule.LEIs {
		if err := v.validate.Var(lei, "lei"); err != nil {
			result = multierror.Append(result, fmt.Errorf(
				"LEI %q must be 20 characters: 18 alphanumeric followed by 2 digits", lei))
		}
	}
	for _, id := range rule.OenbIDs {
		if err := v.validate.Var(id, "oenbid"); err != nil {
			result = multierror.Append(result, fmt.Errorf("OeNB-ID %q must be 2 to 8 digits", id))
		}
	}
	for _, isin := range rule.IsinsSegment {
		if err := v.validate.Var(isin, "isin"); err != nil {
			result = multierror.Append(result, v.isinError(isin))
		}
	}
	for _, isin := range rule.IsinsShareClass {
		if err := v.validate.Var(isin, "isin"); err != nil {
			result = multierror.Append(result, v.isinError(isin))
		}
	}

	return result.ErrorOrNil()
}

func (v *ValidationUtil) isinError(isin string) error {
	return fmt.Errorf("ISIN %q must be 12 characters: 2 letters, 9 alphanumeric, 1 digit", isin)
}
