// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"net/url"
	"regexp"
	"strings"
)

// Kind is the outcome of classifying free-form input.
type Kind int

const (
	KindUnknown Kind = iota
	KindID
)

func (k Kind) String() string {
	switch k {
	case KindID:
		return "id"
	default:
		return "unknown"
	}
}

// Classification is the result of Classify. ID is set only when Kind is KindID.
type Classification struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id,omitempty"`

	// Verified is false when the id was taken from the last path segment of
	// an arxiv.org URL without checking its format. Such ids may name listing
	// pages or other non-paper resources.
	Verified bool `json:"verified"`
}

var (
	// bareIDPattern matches "2410.12345" and "2410.12345v2".
	bareIDPattern = regexp.MustCompile(`(?i)^\d{4}\.\d{5}(v\d+)?$`)

	prefixedIDPattern = regexp.MustCompile(`(?i)^arXiv:\d{4}\.\d{5}(v\d+)?$`)

	// doiPathPattern matches the path of an arXiv DataCite DOI URL.
	doiPathPattern = regexp.MustCompile(`(?i)^10\.48550/arXiv\.\d{4}\.\d{5}(v\d+)?$`)

	// schemelessDOIPattern matches "doi.org/10.48550/arXiv.2505.13252".
	schemelessDOIPattern = regexp.MustCompile(`(?i)^doi\.org/10\.48550/arXiv\.\d{4}\.\d{5}(v\d+)?$`)

	versionPattern = regexp.MustCompile(`(?i)v\d+$`)
)

const (
	arxivPrefix   = "arxiv:"
	doiPathPrefix = "10.48550/arxiv."
	doiURLPrefix  = "doi.org/" + doiPathPrefix
)

// Classify resolves a raw id, an "arXiv:" id, an arXiv DOI, or an arxiv.org
// abstract/PDF URL to a canonical arXiv id. Anything else is KindUnknown.
// Version suffixes are kept.
func Classify(input string) Classification {
	s := strings.TrimSpace(input)
	if s == "" {
		return Classification{Kind: KindUnknown}
	}

	if bareIDPattern.MatchString(s) {
		return verified(s)
	}

	if prefixedIDPattern.MatchString(s) {
		return verified(s[len(arxivPrefix):])
	}

	if u, ok := parseURL(s); ok && strings.Contains(strings.ToLower(u.Hostname()), "doi.org") {
		path := strings.TrimLeft(u.EscapedPath(), "/")
		if doiPathPattern.MatchString(path) {
			return verified(path[len(doiPathPrefix):])
		}
	}
	if schemelessDOIPattern.MatchString(s) {
		return verified(s[len(doiURLPrefix):])
	}

	if u, ok := parseURL(s); ok && strings.Contains(strings.ToLower(u.Hostname()), "arxiv.org") {
		segments := strings.Split(u.EscapedPath(), "/")
		last := segments[len(segments)-1]
		if strings.HasSuffix(strings.ToLower(last), ".pdf") {
			last = last[:len(last)-len(".pdf")]
		}
		if last == "" {
			return Classification{Kind: KindUnknown}
		}
		return Classification{Kind: KindID, ID: last}
	}

	return Classification{Kind: KindUnknown}
}

// IsCanonical reports whether id has the YYMM.NNNNN[vK] form.
func IsCanonical(id string) bool {
	return bareIDPattern.MatchString(id)
}

// StripVersion removes a trailing "vK" from a canonical id. Other strings
// are returned unchanged.
func StripVersion(id string) string {
	if !IsCanonical(id) {
		return id
	}
	return versionPattern.ReplaceAllString(id, "")
}

func verified(id string) Classification {
	return Classification{Kind: KindID, ID: id, Verified: true}
}

// parseURL accepts only absolute URLs with a host. url.Parse alone treats
// plain text such as "not a paper" as a relative path.
func parseURL(s string) (*url.URL, bool) {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}
	return u, true
}
