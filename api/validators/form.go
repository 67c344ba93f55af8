package validators

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _ := parseFormTag(f.Tag.Get("form"))
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// DecodeForm fills dest from the submitted form body. Fields are bound with a
// `form:"name[,required]"` tag:
//
//   - string fields take the first submitted value verbatim, empty included
//   - *string fields stay nil when the key is absent
//   - bool fields are true when the key is present at all (checkbox encoding)
//   - uint fields are parsed as base-10 integers
//
// A required key that is absent is a validation error. After binding, the
// struct's `validate` tags are checked.
func DecodeForm(r *http.Request, dest any) error {
	if err := r.ParseForm(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form submission")
	}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("form destination must be a pointer to a struct, got %T", dest)
	}
	rv = rv.Elem()
	rt := rv.Type()

	problems := map[string]string{}
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name, required := parseFormTag(field.Tag.Get("form"))
		if name == "" || name == "-" {
			continue
		}
		values, present := r.PostForm[name]
		target := rv.Field(i)

		if target.Kind() == reflect.Bool {
			target.SetBool(present)
			continue
		}
		if !present || len(values) == 0 {
			if required {
				problems[name] = "is required"
			}
			continue
		}

		raw := values[0]
		switch target.Kind() {
		case reflect.String:
			target.SetString(raw)
		case reflect.Pointer:
			if target.Type().Elem().Kind() != reflect.String {
				return fmt.Errorf("unsupported form field type %s for %q", target.Type(), name)
			}
			value := raw
			target.Set(reflect.ValueOf(&value))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			parsed, err := strconv.ParseUint(strings.TrimSpace(raw), 10, target.Type().Bits())
			if err != nil {
				problems[name] = "must be a positive number"
				continue
			}
			target.SetUint(parsed)
		default:
			return fmt.Errorf("unsupported form field type %s for %q", target.Type(), name)
		}
	}

	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, describeProblems(problems)).WithDetails(problems)
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func parseFormTag(tag string) (string, bool) {
	parts := strings.Split(tag, ",")
	name := strings.TrimSpace(parts[0])
	required := false
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "required" {
			required = true
		}
	}
	return name, required
}

func describeProblems(problems map[string]string) string {
	if len(problems) == 1 {
		for name, problem := range problems {
			return fmt.Sprintf("%s %s", name, problem)
		}
	}
	return "Please fill in all required fields"
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, describeProblems(details)).WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
