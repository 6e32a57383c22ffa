package responsive

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// DefaultSrcSetCandidates are the width multipliers used to build a srcset
// when the image data carries none.
var DefaultSrcSetCandidates = []float64{0.25, 0.5, 0.75, 1, 1.5, 2, 3, 4}

// minSrcSetWidth is the narrowest candidate worth listing.
const minSrcSetWidth = 50

const bogusBase = "https://example.com/"

// BuildSrcSet derives a srcset from an imgix-style src: every candidate
// other than 1 gets a dpr parameter and proportionally scaled max-w/max-h
// parameters. Candidates narrower than 50px are dropped. It returns "" when
// src or width is missing.
func BuildSrcSet(src string, width float64, candidates []float64) string {
	if src == "" || width <= 0 {
		return ""
	}
	base, _ := url.Parse(bogusBase)

	entries := make([]string, 0, len(candidates))
	for _, m := range candidates {
		finalWidth := math.Floor(width * m)
		if finalWidth < minSrcSetWidth {
			continue
		}

		u, err := base.Parse(src)
		if err != nil {
			return ""
		}
		if m != 1 {
			q := parseQuery(u.RawQuery)
			q.set("dpr", strconv.FormatFloat(m, 'f', -1, 64))
			for _, key := range []string{"max-h", "max-w"} {
				if v, ok := q.get(key); ok {
					if n, err := strconv.Atoi(leadingDigits(v)); err == nil {
						q.set(key, strconv.Itoa(int(math.Floor(float64(n)*m))))
					}
				}
			}
			u.RawQuery = q.encode()
		}

		s := u.String()
		if strings.HasPrefix(s, bogusBase) {
			s = "/" + strings.TrimPrefix(s, bogusBase)
		}
		entries = append(entries, s+" "+strconv.Itoa(int(finalWidth))+"w")
	}
	return strings.Join(entries, ",")
}

// query keeps parameters in their original order so that rewriting dpr or
// max-w leaves the rest of the URL untouched.
type query []queryParam

type queryParam struct {
	key string // decoded
	raw string // as it appears in the URL
}

func parseQuery(raw string) query {
	var q query
	if raw == "" {
		return q
	}
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, _, _ := strings.Cut(part, "=")
		if dk, err := url.QueryUnescape(k); err == nil {
			k = dk
		}
		q = append(q, queryParam{key: k, raw: part})
	}
	return q
}

func (q query) get(key string) (string, bool) {
	for _, p := range q {
		if p.key == key {
			_, v, _ := strings.Cut(p.raw, "=")
			if dv, err := url.QueryUnescape(v); err == nil {
				v = dv
			}
			return v, true
		}
	}
	return "", false
}

// set replaces the first parameter named key and drops any others, or
// appends one.
func (q *query) set(key, value string) {
	raw := url.QueryEscape(key) + "=" + url.QueryEscape(value)
	out := (*q)[:0]
	found := false
	for _, p := range *q {
		if p.key != key {
			out = append(out, p)
			continue
		}
		if !found {
			out = append(out, queryParam{key: key, raw: raw})
			found = true
		}
	}
	if !found {
		out = append(out, queryParam{key: key, raw: raw})
	}
	*q = out
}

func (q query) encode() string {
	parts := make([]string, len(q))
	for i, p := range q {
		parts[i] = p.raw
	}
	return strings.Join(parts, "&")
}

func leadingDigits(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}
