package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/schema"
)

// parseYears reads the year selection of a request.
// Years come from repeated "year" params or a comma-separated "years" param.
// With neither, every option is selected unless "filtered" is set, which selects none.
func parseYears(r *http.Request, options []int) (schema.YearSet, error) {
	q := r.URL.Query()
	var tokens []string
	tokens = append(tokens, q["year"]...)
	for _, v := range q["years"] {
		tokens = append(tokens, strings.Split(v, ",")...)
	}

	var values []string
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			values = append(values, t)
		}
	}
	if len(values) == 0 && isSet(q.Get("filtered")) {
		values = []string{contract.NoYears}
	}
	return contract.SelectYears(values, options)
}

func isSet(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// selectionQuery encodes a selection so links and chart URLs keep it.
func selectionQuery(years schema.YearSet, query string) string {
	v := url.Values{}
	v.Set("filtered", "1")
	for _, y := range years.Sorted() {
		v.Add("year", strconv.Itoa(y))
	}
	if query != "" {
		v.Set("q", query)
	}
	return v.Encode()
}
