package containers

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewBillForm is the new bill form as submitted. The form tags are the
// input names of the rendered view.
type NewBillForm struct {
	Type       string `form:"expense-type"`
	Name       string `form:"expense-name"`
	Date       string `form:"datepicker" validate:"required,datetime=2006-01-02"`
	Amount     string `form:"amount" validate:"required,numeric,minval=0"`
	VAT        string `form:"vat" validate:"omitempty,numeric,minval=0"`
	Pct        string `form:"pct" validate:"required,numeric,minval=0,maxval=100"`
	Commentary string `form:"commentary"`
}

// Values returns the submitted values keyed by input name.
func (f NewBillForm) Values() map[string]string {
	values := make(map[string]string)
	v := reflect.ValueOf(f)
	for i := 0; i < v.NumField(); i++ {
		values[v.Type().Field(i).Tag.Get("form")] = v.Field(i).String()
	}
	return values
}

// ValidationError lists the inputs of a form that failed validation.
type ValidationError struct {
	fields map[string]bool
}

func (e *ValidationError) Error() string {
	var invalid []string
	for name, valid := range e.fields {
		if !valid {
			invalid = append(invalid, name)
		}
	}
	return "invalid form fields: " + strings.Join(invalid, ", ")
}

// Validity reports for each validated input whether it is valid.
func (e *ValidationError) Validity() map[string]bool {
	validity := make(map[string]bool, len(e.fields))
	for name, valid := range e.fields {
		validity[name] = valid
	}
	return validity
}

// Invalid returns the inputs that failed, keyed by input name.
func (e *ValidationError) Invalid() map[string]bool {
	invalid := make(map[string]bool)
	for name, valid := range e.fields {
		if !valid {
			invalid[name] = true
		}
	}
	return invalid
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("form")
	})
	// min and max compare string lengths; inputs are numbers in text form.
	_ = v.RegisterValidation("minval", numberBound(func(n, bound float64) bool { return n >= bound }))
	_ = v.RegisterValidation("maxval", numberBound(func(n, bound float64) bool { return n <= bound }))
	return v
}

func numberBound(ok func(n, bound float64) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseFloat(fl.Field().String(), 64)
		if err != nil {
			return false
		}
		bound, err := strconv.ParseFloat(fl.Param(), 64)
		if err != nil {
			return false
		}
		return ok(n, bound)
	}
}

// Validate checks the form the way the browser checks required, numeric
// and ranged inputs.
func (f NewBillForm) Validate() error {
	f.Date = strings.TrimSpace(f.Date)
	f.Amount = strings.TrimSpace(f.Amount)
	f.VAT = strings.TrimSpace(f.VAT)
	f.Pct = strings.TrimSpace(f.Pct)

	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := map[string]bool{"datepicker": true, "amount": true, "vat": true, "pct": true}
	for _, fe := range validationErrors {
		fields[fe.Field()] = false
	}
	return &ValidationError{fields: fields}
}
