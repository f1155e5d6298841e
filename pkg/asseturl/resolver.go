// Package asseturl computes the absolute URL a client should fetch a stored
// asset from, given the possibly-relative, possibly-legacy reference the
// server recorded and the deployment environment.
package asseturl

import "strings"

// Canonical hosts and path fragments for asset resolution.
const (
	// ProductionHost prefixes canonical upload paths outside development.
	ProductionHost = "https://static.oakline-furniture.com"

	// LegacyHost serves content migrated from the previous WordPress site.
	LegacyHost = "https://legacy.oakline-furniture.com"

	// LegacyMarker identifies references that still point into the old
	// WordPress storage layout and must be rewritten onto LegacyHost.
	LegacyMarker = "wp-content/uploads"

	// UploadsPrefix is the canonical path prefix for stored assets.
	UploadsPrefix = "/uploads/"

	// StagingPrefix marks ephemeral references served by the same origin
	// that rendered the page; they are returned unchanged.
	StagingPrefix = "/static/"

	// PlaceholderURL is returned for empty references.
	PlaceholderURL = "/static/placeholder.svg"
)

// Reference is the object form of an asset reference.
type Reference struct {
	URL string `json:"url"`
}

// Resolver resolves stored asset references into fetchable URLs.
// The zero value resolves for production with the canonical hosts.
type Resolver struct {
	// Development switches output to root-relative paths, trusting a
	// same-origin dev proxy to reach the uploads root.
	Development bool

	// Host overrides ProductionHost when non-empty.
	Host string

	// LegacyHost overrides the default legacy host when non-empty.
	LegacyHost string

	// Placeholder overrides PlaceholderURL when non-empty.
	Placeholder string
}

// Resolve maps a stored reference to an absolute URL. It is pure and
// idempotent: resolving an already-resolved URL returns it unchanged.
func (r Resolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return r.placeholder()
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		if idx := strings.Index(ref, LegacyMarker); idx >= 0 && !strings.HasPrefix(ref, r.legacyHost()) {
			return r.rewriteLegacy(ref, idx)
		}
		return ref
	}

	if idx := strings.Index(ref, LegacyMarker); idx >= 0 {
		return r.rewriteLegacy(ref, idx)
	}

	if strings.HasPrefix(ref, StagingPrefix) {
		return ref
	}

	path := normalizeUploadsPath(ref)
	if r.Development {
		return path
	}
	return r.host() + path
}

// ResolveReference unwraps the object form before applying string rules.
func (r Resolver) ResolveReference(ref *Reference) string {
	if ref == nil {
		return r.placeholder()
	}
	return r.Resolve(ref.URL)
}

// rewriteLegacy points the reference at the legacy host, preserving
// everything from the marker onward.
func (r Resolver) rewriteLegacy(ref string, markerIdx int) string {
	return r.legacyHost() + "/" + ref[markerIdx:]
}

// normalizeUploadsPath guarantees exactly one canonical uploads prefix.
func normalizeUploadsPath(ref string) string {
	p := "/" + strings.TrimLeft(ref, "/")
	if strings.HasPrefix(p, UploadsPrefix) {
		return p
	}
	return UploadsPrefix + strings.TrimPrefix(p, "/")
}

func (r Resolver) host() string {
	if r.Host != "" {
		return strings.TrimSuffix(r.Host, "/")
	}
	return ProductionHost
}

func (r Resolver) legacyHost() string {
	if r.LegacyHost != "" {
		return strings.TrimSuffix(r.LegacyHost, "/")
	}
	return LegacyHost
}

func (r Resolver) placeholder() string {
	if r.Placeholder != "" {
		return r.Placeholder
	}
	return PlaceholderURL
}
