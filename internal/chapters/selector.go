package chapters

import (
	"strconv"
	"strings"

	"github.com/brogergvhs/storyd/internal/providers"
)

// Filter narrows the discovered chapters. chapter picks one chapter by
// exact title or 1-based index and wins over a range ("2-5"), which wins
// over a list ("1,3,7"). With none set all chapters are kept.
func Filter(all []providers.ChapterRef, chapter, rng, list string) []providers.ChapterRef {
	if chapter = strings.TrimSpace(chapter); chapter != "" {
		if byTitle := FilterByTitle(all, chapter); len(byTitle) > 0 {
			return byTitle
		}
		if idx, err := atoi(chapter); err == nil && idx > 0 && idx <= len(all) {
			return all[idx-1 : idx]
		}
		return nil
	}
	if rng != "" {
		return FilterRange(all, rng)
	}
	if list != "" {
		return FilterList(all, list)
	}

	return all
}

// FilterByTitle keeps the chapters whose title equals title, ignoring case
// and surrounding whitespace.
func FilterByTitle(all []providers.ChapterRef, title string) []providers.ChapterRef {
	var out []providers.ChapterRef
	for _, ch := range all {
		if strings.EqualFold(strings.TrimSpace(ch.Title), title) {
			out = append(out, ch)
		}
	}

	return out
}

func FilterRange(all []providers.ChapterRef, rng string) []providers.ChapterRef {
	parts := strings.Split(rng, "-")
	if len(parts) != 2 {
		return nil
	}

	start, err1 := atoi(parts[0])
	end, err2 := atoi(parts[1])
	if err1 != nil || err2 != nil {
		return nil
	}
	if start <= 0 || end <= 0 || start > end || end > len(all) {
		return nil
	}

	return all[start-1 : end]
}

func FilterList(all []providers.ChapterRef, list string) []providers.ChapterRef {
	var out []providers.ChapterRef
	for _, n := range strings.Split(list, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}

		idx, err := atoi(n)
		if err != nil || idx <= 0 || idx > len(all) {
			continue
		}

		out = append(out, all[idx-1])
	}

	return out
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
