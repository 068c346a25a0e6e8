package slug

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugifyProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		source := rapid.String().Draw(t, "source")
		maxLen := rapid.IntRange(1, 200).Draw(t, "maxLen")

		s, err := Slugify(source, maxLen)
		if err != nil {
			return
		}
		if !slugPattern.MatchString(s) {
			t.Fatalf("slug %q is not url-safe", s)
		}
		if len(s) > maxLen {
			t.Fatalf("slug %q longer than %d", s, maxLen)
		}
		// 幂等
		again, err := Slugify(s, maxLen)
		if err != nil || again != s {
			t.Fatalf("Slugify(%q) = %q, %v", s, again, err)
		}
	})
}

func TestCandidateProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.StringMatching(`[a-z0-9]{1,20}(-[a-z0-9]{1,20}){0,4}`).Draw(t, "base")
		maxLen := rapid.IntRange(20, 200).Draw(t, "maxLen")
		n := rapid.IntRange(2, 10000).Draw(t, "n")

		base = truncate(base, maxLen)
		c := Candidate(base, n, maxLen)
		if len(c) > maxLen {
			t.Fatalf("candidate %q longer than %d", c, maxLen)
		}
		if !slugPattern.MatchString(c) {
			t.Fatalf("candidate %q is not url-safe", c)
		}
		if c == Candidate(base, n+1, maxLen) {
			t.Fatalf("candidates %d and %d collide: %q", n, n+1, c)
		}
		if !strings.HasSuffix(c, "-"+strconv.Itoa(n)) {
			t.Fatalf("candidate %q has no numeric suffix", c)
		}
	})
}
