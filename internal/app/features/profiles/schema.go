// internal/app/features/profiles/schema.go
package profiles

import (
	"strings"
	"time"

	"github.com/dalemusser/devhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/devhub/internal/app/system/inputval"
	"github.com/dalemusser/devhub/internal/domain/models"
)

const dateLayout = "2006-01-02"

func init() {
	inputval.RegisterRule("profilestatus", models.IsProfileStatus,
		"%s must be one of: "+strings.Join(models.ProfileStatuses, ", ")+".")
}

// ValidateProfile checks a profile body and, when it is valid, returns the
// fields to store. Every violation is reported, not only the first.
func ValidateProfile(in ProfileInput) (models.ProfileFields, *inputval.Result) {
	in.Handle = strings.TrimSpace(in.Handle)
	in.Company = strings.TrimSpace(in.Company)
	in.Website = strings.TrimSpace(in.Website)
	in.Location = strings.TrimSpace(in.Location)
	in.Status = strings.TrimSpace(in.Status)
	in.GitHubUsername = strings.TrimSpace(in.GitHubUsername)
	in.Bio = htmlsanitize.StripTags(in.Bio)

	res := inputval.Validate(in)
	if res.HasErrors() {
		return models.ProfileFields{}, res
	}

	return models.ProfileFields{
		Handle:         in.Handle,
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Status:         in.Status,
		Skills:         append([]string{}, in.Skills...),
		Bio:            in.Bio,
		GitHubUsername: in.GitHubUsername,
		Social: models.Social{
			YouTube:   strings.TrimSpace(in.YouTube),
			Facebook:  strings.TrimSpace(in.Facebook),
			Twitter:   strings.TrimSpace(in.Twitter),
			LinkedIn:  strings.TrimSpace(in.LinkedIn),
			Instagram: strings.TrimSpace(in.Instagram),
		},
	}, res
}

// ValidateExperience checks one experience entry. The returned entry has no id.
func ValidateExperience(in ExperienceInput) (models.Experience, *inputval.Result) {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = htmlsanitize.StripTags(in.Description)

	res := inputval.Validate(in)
	span := checkSpan(res, in.From, in.To, in.Current)
	if res.HasErrors() {
		return models.Experience{}, res
	}

	return models.Experience{
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        span.from,
		To:          span.to,
		Current:     in.Current,
		Description: in.Description,
	}, res
}

// ValidateEducation checks one education entry. The returned entry has no id.
func ValidateEducation(in EducationInput) (models.Education, *inputval.Result) {
	in.School = strings.TrimSpace(in.School)
	in.Degree = strings.TrimSpace(in.Degree)
	in.FieldOfStudy = strings.TrimSpace(in.FieldOfStudy)
	in.Description = htmlsanitize.StripTags(in.Description)

	res := inputval.Validate(in)
	span := checkSpan(res, in.From, in.To, in.Current)
	if res.HasErrors() {
		return models.Education{}, res
	}

	return models.Education{
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         span.from,
		To:           span.to,
		Current:      in.Current,
		Description:  in.Description,
	}, res
}

type dateSpan struct {
	from time.Time
	to   *time.Time
}

// checkSpan parses from/to and applies the cross-field date rules,
// adding violations to res. A missing from is already reported by the tags.
func checkSpan(res *inputval.Result, fromRaw, toRaw string, current bool) dateSpan {
	var span dateSpan
	fromRaw = strings.TrimSpace(fromRaw)
	toRaw = strings.TrimSpace(toRaw)

	fromOK := false
	if fromRaw != "" {
		if t, ok := parseDate(fromRaw); ok {
			span.from, fromOK = t, true
		} else {
			res.Add("from", "From date must be a date (YYYY-MM-DD).")
		}
	}

	if toRaw == "" {
		return span
	}
	if current {
		res.Add("to", "To date must be empty when current is set.")
		return span
	}
	t, ok := parseDate(toRaw)
	if !ok {
		res.Add("to", "To date must be a date (YYYY-MM-DD).")
		return span
	}
	if fromOK && t.Before(span.from) {
		res.Add("to", "To date must not be before From date.")
		return span
	}
	span.to = &t
	return span
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp, in UTC.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Truncate(time.Millisecond), true
	}
	return time.Time{}, false
}
