package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePagination reads skip and limit query values. Empty values fall back to 0 and maxLimit.
// A limit above maxLimit is clamped and a non-positive limit uses maxLimit.
func ParsePagination(rawSkip, rawLimit string, maxLimit int) (skip, limit int, errs Errors) {
	skip, limit = 0, maxLimit

	if s := strings.TrimSpace(rawSkip); s != "" {
		v, err := strconv.Atoi(s)
		switch {
		case err != nil:
			errs.Add("skip", fmt.Errorf("must be an integer"))
		case v < 0:
			errs.Add("skip", fmt.Errorf("must be greater than or equal to 0"))
		default:
			skip = v
		}
	}

	if s := strings.TrimSpace(rawLimit); s != "" {
		v, err := strconv.Atoi(s)
		switch {
		case err != nil:
			errs.Add("limit", fmt.Errorf("must be an integer"))
		case v < 1:
		case v > maxLimit:
			limit = maxLimit
		default:
			limit = v
		}
	}

	return skip, limit, errs
}
