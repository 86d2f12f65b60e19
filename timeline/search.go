package timeline

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/meysamhadeli/stepdiff/timeline/models"
)

// FindStep resolves a user query to a step index. A number is a 1-based position, an exact ID or title
// match wins next, and otherwise the closest fuzzy title match is used.
func FindStep(steps models.StepSequence, query string) (int, bool) {
	query = strings.TrimSpace(query)
	if query == "" || len(steps) == 0 {
		return 0, false
	}

	if n, err := strconv.Atoi(query); err == nil {
		if n < 1 || n > len(steps) {
			return 0, false
		}
		return n - 1, true
	}

	titles := make([]string, len(steps))
	for i, step := range steps {
		titles[i] = step.Title(i)
		if strings.EqualFold(step.ID, query) || strings.EqualFold(titles[i], query) {
			return i, true
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	if len(ranks) == 0 {
		return 0, false
	}
	sort.Stable(ranks)
	return ranks[0].OriginalIndex, true
}
