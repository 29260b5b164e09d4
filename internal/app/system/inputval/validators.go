package inputval

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var customRules = map[string]validator.Func{
	"httpurl":  func(fl validator.FieldLevel) bool { return IsValidHTTPURL(fl.Field().String()) },
	"objectid": func(fl validator.FieldLevel) bool { return IsValidObjectID(fl.Field().String()) },
	"nonblank": func(fl validator.FieldLevel) bool { return strings.TrimSpace(fl.Field().String()) != "" },
}

var customMessages = map[string]string{
	"httpurl":  "%s must be a valid http or https URL.",
	"objectid": "%s must be a valid id.",
	"nonblank": "%s must not be blank.",
}

// IsValidHTTPURL reports whether s (trimmed) is an absolute http(s) URL with a host.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidObjectID reports whether s (trimmed) is a 24-char hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
