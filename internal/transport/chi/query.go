package chi

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/kbsearch/internal/domain"
)

// queryBinding names one optional form-style query parameter and its target.
type queryBinding struct {
	name string
	dest any
}

// bindQuery binds every optional parameter, collecting all format errors.
func bindQuery(q url.Values, bindings ...queryBinding) error {
	var bad []string
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			bad = append(bad, fmt.Sprintf("Invalid format for parameter %s", b.name))
		}
	}
	if len(bad) > 0 {
		return domain.NewValidation(bad...)
	}
	return nil
}

type suggestParams struct {
	Q      *string
	Limit  *int
	Recent *[]string
}

func (p *suggestParams) bind(q url.Values) error {
	return bindQuery(q,
		queryBinding{"q", &p.Q},
		queryBinding{"limit", &p.Limit},
		queryBinding{"recent", &p.Recent},
	)
}

type listParams struct {
	Category  *string
	Status    *string
	SortBy    *string
	SortOrder *string
	Page      *int
	PageSize  *int
}

func (p *listParams) bind(q url.Values) error {
	return bindQuery(q,
		queryBinding{"category", &p.Category},
		queryBinding{"status", &p.Status},
		queryBinding{"sortBy", &p.SortBy},
		queryBinding{"sortOrder", &p.SortOrder},
		queryBinding{"page", &p.Page},
		queryBinding{"pageSize", &p.PageSize},
	)
}

type getParams struct {
	IncludeHistory *bool
}

func (p *getParams) bind(q url.Values) error {
	return bindQuery(q, queryBinding{"includeHistory", &p.IncludeHistory})
}

type analyticsParams struct {
	StartDate   *string
	EndDate     *string
	Granularity *string
}

func (p *analyticsParams) bind(q url.Values) error {
	return bindQuery(q,
		queryBinding{"startDate", &p.StartDate},
		queryBinding{"endDate", &p.EndDate},
		queryBinding{"granularity", &p.Granularity},
	)
}
