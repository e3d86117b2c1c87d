package handlers

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/SscSPs/treasury_ledger/pkg/money"
)

// RegisterValidators adds the money_* tags to gin's validator. Money fields are
// validated as their raw unit count.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return registerMoneyValidators(v)
}

func registerMoneyValidators(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if m, ok := field.Interface().(money.Money); ok {
			return m.Units()
		}
		return nil
	}, money.Money{})

	rules := map[string]func(units int64) bool{
		"money_positive":    func(u int64) bool { return u > 0 },
		"money_nonnegative": func(u int64) bool { return u >= 0 },
		"money_nonzero":     func(u int64) bool { return u != 0 },
	}
	for tag, rule := range rules {
		rule := rule
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fl.Field().Kind() == reflect.Int64 && rule(fl.Field().Int())
		}); err != nil {
			return err
		}
	}
	return nil
}
