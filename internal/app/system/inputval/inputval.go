// Package inputval wraps go-playground/validator with the app's custom rules
// and turns its errors into user-facing, per-field messages.
//
// Structs are annotated with `validate` tags for rules and optional `label`
// tags for the human name used in messages. Field paths in the result use the
// `json` tag names so clients can map violations back to request fields.
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is one violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result collects every violation found in one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return r != nil && len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if !r.HasErrors() {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Add appends a violation. Used for cross-field rules that tags cannot express.
func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		for tag, fn := range customRules {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(fmt.Sprintf("inputval: register %q: %v", tag, err))
			}
		}
		validate = v
	})
	return validate
}

// RegisterRule adds a custom string rule and its message ("%s" is replaced
// by the field label). Call it from init; it is not safe to race with Validate.
func RegisterRule(tag string, fn func(string) bool, message string) {
	err := instance().RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("inputval: register %q: %v", tag, err))
	}
	customMessages[tag] = message
}

// Validate runs every rule on s and collects all violations.
// s must be a struct or a pointer to one.
func Validate(s interface{}) *Result {
	res := &Result{}
	err := instance().Struct(s)
	if err == nil {
		return res
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Add("", err.Error())
		return res
	}

	root := reflect.TypeOf(s)
	for root.Kind() == reflect.Ptr {
		root = root.Elem()
	}
	for _, fe := range verrs {
		res.Add(fieldPath(fe.Namespace()), message(fe, labelFor(root, fe)))
	}
	return res
}

// fieldPath drops the root type name from a namespace like
// "profileInput.social.youtube".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

var indexSuffix = regexp.MustCompile(`\[\d+\]$`)

// labelFor walks the struct namespace to find the field's `label` tag.
func labelFor(root reflect.Type, fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	t := root
	label := ""
	for _, p := range parts[1:] {
		for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			break
		}
		sf, ok := t.FieldByName(indexSuffix.ReplaceAllString(p, ""))
		if !ok {
			break
		}
		label = sf.Tag.Get("label")
		t = sf.Type
	}
	if label == "" {
		label = fe.Field()
	}
	return label
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s items.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s item(s).", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	if msg, ok := customMessages[fe.Tag()]; ok {
		if strings.Contains(msg, "%s") {
			return fmt.Sprintf(msg, label)
		}
		return msg
	}
	return fmt.Sprintf("%s is invalid.", label)
}
