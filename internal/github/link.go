package github

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/travishathaway/gdfm/internal/domain"
)

// Relation names used by the GitHub Link header.
const (
	RelFirst = "first"
	RelPrev  = "prev"
	RelNext  = "next"
	RelLast  = "last"
)

// Link is one entry of a Link header.
type Link struct {
	URL  string
	Page int
}

// Links maps a relation name to its entry.
type Links map[string]Link

// Last returns the page number of the last relation.
func (l Links) Last() (int, bool) {
	link, ok := l[RelLast]
	return link.Page, ok
}

// Next returns the page number of the next relation.
func (l Links) Next() (int, bool) {
	link, ok := l[RelNext]
	return link.Page, ok
}

// LinkParseError reports a Link header that does not follow
// `<url>; rel="name"[, ...]`.
type LinkParseError struct {
	Header string
	Reason string
}

func (e *LinkParseError) Error() string {
	return fmt.Sprintf("parse link header %q: %s", e.Header, e.Reason)
}

func (e *LinkParseError) Is(target error) bool {
	return target == domain.ErrParse
}

// ParseLinkHeader parses a Link header. An empty header yields no links.
// Every entry must carry a rel parameter and a positive page query parameter.
func ParseLinkHeader(header string) (Links, error) {
	links := Links{}
	if strings.TrimSpace(header) == "" {
		return links, nil
	}

	fail := func(format string, args ...any) (Links, error) {
		return nil, &LinkParseError{Header: header, Reason: fmt.Sprintf(format, args...)}
	}

	for _, entry := range strings.Split(header, ",") {
		entry = strings.TrimSpace(entry)

		// 1. <url>
		if !strings.HasPrefix(entry, "<") {
			return fail("entry %q does not start with '<'", entry)
		}
		end := strings.Index(entry, ">")
		if end < 0 {
			return fail("entry %q has no closing '>'", entry)
		}
		target := entry[1:end]

		// 2. ; rel="name"
		var rel string
		for _, param := range strings.Split(entry[end+1:], ";") {
			param = strings.TrimSpace(param)
			if param == "" {
				continue
			}
			key, value, ok := strings.Cut(param, "=")
			if !ok {
				return fail("parameter %q has no value", param)
			}
			if strings.TrimSpace(key) == "rel" {
				rel = strings.Trim(strings.TrimSpace(value), `"`)
			}
		}
		if rel == "" {
			return fail("entry %q has no rel", entry)
		}

		// 3. page query parameter
		u, err := url.Parse(target)
		if err != nil {
			return fail("invalid url %q: %v", target, err)
		}
		raw := u.Query().Get("page")
		if raw == "" {
			return fail("url %q has no page parameter", target)
		}
		page, err := strconv.ParseUint(raw, 10, 31)
		if err != nil || page == 0 {
			return fail("url %q has invalid page %q", target, raw)
		}

		links[rel] = Link{URL: target, Page: int(page)}
	}

	return links, nil
}
