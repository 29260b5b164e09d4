// internal/app/features/profiles/payload.go
package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/devhub/internal/app/features/errors"
	"github.com/dalemusser/devhub/internal/app/system/limits"
)

// ProfileInput is the accepted body for create and whole-profile update.
// The five social links arrive flat and are nested into models.Social.
// Any other key (including "user") is rejected at decode time.
type ProfileInput struct {
	Handle         string    `json:"handle" label:"Handle" validate:"required,nonblank,max=40"`
	Company        string    `json:"company" label:"Company" validate:"max=100"`
	Website        string    `json:"website" label:"Website" validate:"omitempty,httpurl"`
	Location       string    `json:"location" label:"Location" validate:"max=100"`
	Status         string    `json:"status" label:"Status" validate:"required,profilestatus"`
	Skills         SkillList `json:"skills" label:"Skills" validate:"required,min=1,max=50,dive,nonblank,max=50"`
	Bio            string    `json:"bio" label:"Bio" validate:"max=2000"`
	GitHubUsername string    `json:"githubusername" label:"GitHub username" validate:"max=39"`

	YouTube   string `json:"youtube" label:"YouTube" validate:"omitempty,httpurl"`
	Facebook  string `json:"facebook" label:"Facebook" validate:"omitempty,httpurl"`
	Twitter   string `json:"twitter" label:"Twitter" validate:"omitempty,httpurl"`
	LinkedIn  string `json:"linkedin" label:"LinkedIn" validate:"omitempty,httpurl"`
	Instagram string `json:"instagram" label:"Instagram" validate:"omitempty,httpurl"`
}

// SkillList accepts either a JSON array of strings or a single
// comma-separated string ("go, sql,docker"). Items are trimmed and empty
// items dropped.
type SkillList []string

func (s *SkillList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*s = cleanSkills(list)
		return nil
	}
	var joined string
	if err := json.Unmarshal(b, &joined); err != nil {
		return errors.New("skills must be an array of strings or a comma-separated string")
	}
	*s = cleanSkills(strings.Split(joined, ","))
	return nil
}

func cleanSkills(in []string) SkillList {
	out := make(SkillList, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ExperienceInput is one work history entry as submitted. Dates are strings
// so that a malformed date is reported as a field violation, not a decode error.
type ExperienceInput struct {
	Title       string `json:"title" label:"Title" validate:"required,nonblank,max=100"`
	Company     string `json:"company" label:"Company" validate:"required,nonblank,max=100"`
	Location    string `json:"location" label:"Location" validate:"max=100"`
	From        string `json:"from" label:"From date" validate:"required"`
	To          string `json:"to" label:"To date"`
	Current     bool   `json:"current"`
	Description string `json:"description" label:"Description" validate:"max=2000"`
}

// EducationInput is one schooling entry as submitted.
type EducationInput struct {
	School       string `json:"school" label:"School" validate:"required,nonblank,max=100"`
	Degree       string `json:"degree" label:"Degree" validate:"required,nonblank,max=100"`
	FieldOfStudy string `json:"fieldOfStudy" label:"Field of study" validate:"max=100"`
	From         string `json:"from" label:"From date" validate:"required"`
	To           string `json:"to" label:"To date"`
	Current      bool   `json:"current"`
	Description  string `json:"description" label:"Description" validate:"max=2000"`
}

// decodeJSON reads exactly one JSON object from the body into v.
// Any failure is returned as a 400 invalid_body error.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxJSONBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return apierrors.BadRequest(apierrors.CodeInvalidBody, decodeMessage(err))
	}
	if dec.More() {
		return apierrors.BadRequest(apierrors.CodeInvalidBody, "Request body must contain a single JSON object.")
	}
	return nil
}

func decodeMessage(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return "Request body is required."
	case errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &syntaxErr):
		return "Request body must be valid JSON."
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("Field %q has the wrong type.", typeErr.Field)
		}
		return "Request body must be a JSON object."
	case errors.As(err, &maxErr):
		return "Request body is too large."
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return fmt.Sprintf("Unknown field %s.", strings.TrimPrefix(err.Error(), "json: unknown field "))
	}
	return err.Error()
}
