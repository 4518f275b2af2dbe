package domain

import "github.com/go-playground/validator/v10"

var validate = validator.New()

func validateStruct(v interface{}) error {
	return validate.Struct(v)
}
