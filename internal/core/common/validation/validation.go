package validation

import (
	"fmt"
	"strings"

	errors "github.com/frahmantamala/shopfloor-tasks/internal"
)

type ValidatorFunc func(interface{}) *errors.ValidationError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{fields: make([]*FieldValidator, 0)}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

// Required rejects empty strings, zero row numbers and nil pointers.
func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		missing := false
		switch v := value.(type) {
		case nil:
			missing = true
		case string:
			missing = v == ""
		case int:
			missing = v == 0
		case int64:
			missing = v == 0
		case *string:
			missing = v == nil
		}
		if missing {
			return &errors.ValidationError{
				Field:   fv.FieldName,
				Message: fmt.Sprintf("%s is required", fv.FieldName),
				Code:    "REQUIRED",
			}
		}
		return nil
	})
	return fv
}

// NotBlank is Required for strings that must carry something besides whitespace.
func (fv *FieldValidator) NotBlank() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			return &errors.ValidationError{
				Field:   fv.FieldName,
				Message: fmt.Sprintf("%s must not be blank", fv.FieldName),
				Code:    "BLANK",
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinInt(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		if v, ok := value.(int); ok && v != 0 && v < min {
			return &errors.ValidationError{
				Field:   fv.FieldName,
				Message: fmt.Sprintf("%s must be at least %d", fv.FieldName, min),
				Code:    "TOO_SMALL",
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator ValidatorFunc) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs every rule and reports failures under the given sentinel.
// The first failing rule of each field is kept.
func (v *ValidationBuilder) Validate(sentinel *errors.AppError) *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if err := validator(field.Value); err != nil {
				validationErrors = append(validationErrors, *err)
				break
			}
		}
	}

	if len(validationErrors) > 0 {
		return sentinel.WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}
