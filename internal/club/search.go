package club

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSearchResults caps the number of members SearchMembers returns.
const maxSearchResults = 10

// SearchMembers ranks members whose name fuzzily contains query, closest first.
func (s *store) SearchMembers(ctx context.Context, query string) ([]Member, error) {
	members, err := s.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	return matchMembers(query, members), nil
}

// matchMembers is the pure half of SearchMembers.
func matchMembers(query string, members []Member) []Member {
	q := normalizeName(query)
	if q == "" {
		return []Member{}
	}

	names := make([]string, len(members))
	for i, m := range members {
		names[i] = normalizeName(m.FullName)
	}

	ranks := fuzzy.RankFind(q, names)
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Distance < ranks[j].Distance
	})

	out := make([]Member, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, members[r.OriginalIndex])
		if len(out) == maxSearchResults {
			break
		}
	}
	log.Debug("Member search", "query", query, "matches", len(out))
	return out
}

// normalizeName lowercases a name and strips everything but letters and single spaces.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
