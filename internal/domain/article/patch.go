package article

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/kbsearch/internal/domain"
)

// Patch is a partial article update. Nil fields are unchanged.
type Patch struct {
	Title    *string
	Content  *string
	Category *string
	Tags     *[]string
	Status   *Status
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Category == nil && p.Tags == nil && p.Status == nil
}

func (p Patch) validate() error {
	var errs domain.FieldErrors
	if p.Title != nil && utf8.RuneCountInString(*p.Title) < MinTitleLength {
		errs = append(errs, minLength("title", MinTitleLength))
	}
	if p.Content != nil && utf8.RuneCountInString(*p.Content) < MinContentLength {
		errs = append(errs, minLength("content", MinContentLength))
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		errs = append(errs, domain.FieldError{Field: "category", Message: "Category must not be empty", Code: domain.CodeRequired})
	}
	if p.Status != nil && !p.Status.IsValid() {
		errs = append(errs, domain.FieldError{
			Field: "status", Message: fmt.Sprintf("unknown status %q", *p.Status), Code: domain.CodeInvalid,
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
