package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Rules holds the configurable thresholds of the ledger validation rules
type Rules struct {
	BudgetMinYear   int
	SecretMinLength int
	NameMinLength   int
}

// DefaultRules returns the thresholds used when nothing is configured
func DefaultRules() Rules {
	return Rules{
		BudgetMinYear:   2020,
		SecretMinLength: 4,
		NameMinLength:   3,
	}
}

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
	rules    Rules
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// Rules returns the thresholds this validator was built with
func (v *Validator) Rules() Rules {
	return v.rules
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns a shared validator built with DefaultRules
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator(DefaultRules())
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator(rules Rules) *Validator {
	v := validator.New()

	_ = v.RegisterValidation("notblank", validateNotBlank)
	_ = v.RegisterValidation("positive_decimal", validatePositiveDecimal)
	_ = v.RegisterValidation("currency_scale", validateCurrencyScale)
	_ = v.RegisterValidation("transaction_kind", validateTransactionKind)
	_ = v.RegisterValidation("no_whitespace", validateNoWhitespace)
	_ = v.RegisterValidation("budget_year", minIntRule(rules.BudgetMinYear))
	_ = v.RegisterValidation("secret_length", minLengthRule(rules.SecretMinLength))
	_ = v.RegisterValidation("name_length", minLengthRule(rules.NameMinLength))

	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	v.RegisterCustomTypeFunc(timeValue, time.Time{})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v, rules: rules}
}

// decimalValue exposes amounts to the rules as their exact string form
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// timeValue hides zero times so that "required" fails on them
func timeValue(field reflect.Value) interface{} {
	if t, ok := field.Interface().(time.Time); ok && !t.IsZero() {
		return t.Format(time.RFC3339)
	}
	return nil
}

// ValidateTransaction checks a transaction before it is written
func (v *Validator) ValidateTransaction(t *models.Transaction) error {
	return v.check(t)
}

// ValidateBudget checks a budget before it is written
func (v *Validator) ValidateBudget(b *models.Budget) error {
	return v.check(b)
}

// ValidateCategory checks a category before it is written
func (v *Validator) ValidateCategory(c *models.Category) error {
	return v.check(c)
}

// ValidateUser checks a persisted user record
func (v *Validator) ValidateUser(u *models.User) error {
	return v.check(u)
}

type credentials struct {
	Name   string `json:"name" validate:"notblank,name_length,no_whitespace,max=100"`
	Secret string `json:"secret" validate:"notblank,secret_length"`
}

// ValidateCredentials checks a user name and plain secret at registration
func (v *Validator) ValidateCredentials(name, secret string) error {
	return v.check(&credentials{Name: name, Secret: secret})
}

type period struct {
	Month int `json:"month" validate:"min=1,max=12"`
	Year  int `json:"year" validate:"budget_year"`
}

// ValidatePeriod checks a report or budget month and year
func (v *Validator) ValidatePeriod(month, year int) error {
	if err := v.check(&period{Month: month, Year: year}); err != nil {
		if vf, ok := err.(*apierrors.ValidationFailure); ok {
			vf.Code = apierrors.ValidationInvalidPeriod
		}
		return err
	}
	return nil
}

// ValidateDateRange checks an inclusive date range
func (v *Validator) ValidateDateRange(start, end time.Time) error {
	var missing []string
	if start.IsZero() {
		missing = append(missing, "start_date")
	}
	if end.IsZero() {
		missing = append(missing, "end_date")
	}
	if len(missing) > 0 {
		return &apierrors.ValidationFailure{
			Fields: missing,
			Reason: "start and end dates are required",
			Code:   apierrors.ValidationInvalidDate,
		}
	}

	if models.DateOnly(start).After(models.DateOnly(end)) {
		return &apierrors.ValidationFailure{
			Fields: []string{"start_date", "end_date"},
			Reason: "start date must not be after end date",
			Code:   apierrors.ValidationInvalidDate,
		}
	}

	return nil
}

// check runs struct validation and converts the outcome into a ValidationFailure
func (v *Validator) check(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.NewValidationFailure(err.Error())
	}

	return ToFailure(validationErrs)
}

// ToFailure converts validator field errors into a ValidationFailure
func ToFailure(errs validator.ValidationErrors) *apierrors.ValidationFailure {
	fields := make([]string, 0, len(errs))
	reasons := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fe.Field())
		reasons = append(reasons, fmt.Sprintf("%s %s", fe.Field(), FormatFieldError(fe)))
	}

	return apierrors.NewValidationFailure(strings.Join(reasons, "; "), fields...)
}

// Custom validation functions

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validatePositiveDecimal parses the exact decimal string and requires it to be above zero
func validatePositiveDecimal(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}

	amount, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}

	return amount.GreaterThan(decimal.Zero)
}

// validateCurrencyScale rejects amounts with fractions finer than a cent.
// Trailing zeros such as 10.500 are accepted.
func validateCurrencyScale(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}

	amount, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}

	return models.HasCurrencyScale(amount)
}

func validateTransactionKind(fl validator.FieldLevel) bool {
	return models.IsValidTransactionKind(models.TransactionKind(fl.Field().String()))
}

func validateNoWhitespace(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

func minIntRule(min int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return fl.Field().Int() >= int64(min)
		default:
			return false
		}
	}
}

func minLengthRule(min int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) >= min
	}
}
