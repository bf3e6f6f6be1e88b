package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"rentago/internal/domain"
	"rentago/internal/services"
	"rentago/internal/utils"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator and
// makes field errors use the json (or form) names clients send.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		_ = v.RegisterValidation("orderid", func(fl validator.FieldLevel) bool {
			return utils.IsOrderID(fl.Field().String())
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return services.ValidatePhone(fl.Field().String()) == ""
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := utils.ParseDate(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("vehicleyear", func(fl validator.FieldLevel) bool {
			return fl.Field().Int() <= int64(time.Now().Year()+1)
		})
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "wajib diisi"
	case "orderid":
		return "Format order ID tidak valid (ORD-XXXXXX)"
	case "phone":
		return "Nomor telepon minimal 10 digit dan hanya angka atau +"
	case "isodate":
		return "Format tanggal harus YYYY-MM-DD"
	case "vehicleyear":
		return fmt.Sprintf("Tahun maksimal %d", time.Now().Year()+1)
	case "email":
		return "Email tidak valid"
	case "url":
		return "URL tidak valid"
	case "oneof":
		return "harus salah satu dari: " + fe.Param()
	case "min", "gte":
		return "minimal " + fe.Param()
	case "max", "lte":
		return "maksimal " + fe.Param()
	case "gt":
		return "harus lebih dari " + fe.Param()
	default:
		return "tidak valid"
	}
}

// bindingError turns a gin binding failure into a ValidationError with a
// field-keyed map.
func bindingError(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		fields := make(map[string][]string, len(ves))
		for _, fe := range ves {
			fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
		}
		return domain.ValidationError{Msg: "Validation failed", Fields: fields, Err: err}
	}
	return domain.ValidationError{Msg: "payload tidak valid", Err: err}
}
