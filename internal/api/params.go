package api

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rpattn/panelql/internal/domain"
)

// filterParam matches rails-style bracket parameters:
// filters[name][1][o]=starts_with&filters[name][1][v]=Ann
var filterParam = regexp.MustCompile(`^filters\[([^\]]+)\]\[([^\]]+)\]\[(o|v|disabled)\]$`)

// parseListParams decodes the request-shaped listing input from query
// parameters.
func parseListParams(values url.Values) (domain.ListParams, error) {
	params := domain.ListParams{
		Query:       strings.TrimSpace(values.Get("query")),
		SortReverse: parseBool(values.Get("sort_reverse")),
		IncludeRefs: parseBool(values.Get("include_refs")),
	}

	var err error
	if params.Page, err = parseInt(values.Get("page")); err != nil {
		return domain.ListParams{}, fmt.Errorf("invalid page: %w", err)
	}
	if params.Per, err = parseInt(values.Get("per")); err != nil {
		return domain.ListParams{}, fmt.Errorf("invalid per: %w", err)
	}
	if params.Limit, err = parseInt(values.Get("limit")); err != nil {
		return domain.ListParams{}, fmt.Errorf("invalid limit: %w", err)
	}

	if raw := values.Get("bulk_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				params.BulkIDs = append(params.BulkIDs, id)
			}
		}
	}

	params.Sort, err = parseSort(values.Get("sort"))
	if err != nil {
		return domain.ListParams{}, err
	}

	params.Filters = parseFilters(values)
	return params, nil
}

// parseSort accepts a column name, a comma-separated column sequence, or a
// comma-separated table:column mapping.
func parseSort(raw string) (domain.SortTarget, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.SortTarget{}, nil
	}

	entries := strings.Split(raw, ",")
	for i := range entries {
		entries[i] = strings.TrimSpace(entries[i])
	}

	if strings.Contains(entries[0], ":") {
		pairs := make(map[string]string, len(entries))
		for _, entry := range entries {
			table, column, ok := strings.Cut(entry, ":")
			if !ok || table == "" || column == "" {
				return domain.SortTarget{}, fmt.Errorf("invalid sort entry %q", entry)
			}
			pairs[table] = column
		}
		return domain.NewSortTarget(pairs)
	}

	if len(entries) == 1 {
		return domain.NewSortTarget(entries[0])
	}
	return domain.NewSortTarget(entries)
}

// parseFilters collects the bracket-encoded filter entries.
func parseFilters(values url.Values) domain.FilterInput {
	filters := make(domain.FilterInput)
	for key, vals := range values {
		match := filterParam.FindStringSubmatch(key)
		if match == nil || len(vals) == 0 {
			continue
		}
		field, index, part := match[1], match[2], match[3]

		if filters[field] == nil {
			filters[field] = make(map[string]domain.FilterSpec)
		}
		spec := filters[field][index]
		switch part {
		case "o":
			spec.Operator = vals[0]
		case "v":
			spec.Value = vals[0]
		case "disabled":
			spec.Disabled = parseBool(vals[0])
		}
		filters[field][index] = spec
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}

func parseInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "t", "yes":
		return true
	default:
		return false
	}
}
