package catalog

import (
	"net/url"
	"strings"

	"pagefinder/internal/config"
	"pagefinder/internal/identity"
)

// maxURLInstructorTokens bounds how many slug segments after "by" are read as
// instructor name parts.
const maxURLInstructorTokens = 3

// Catalog knows the shape of product URLs on the catalog site.
type Catalog struct {
	base        *url.URL
	productPath string
	excluded    []string
}

// New builds a Catalog from a base URL, the product path marker, and slugs of
// promotional products that never count as results.
func New(baseURL, productPath string, excluded []string) (*Catalog, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}
	if productPath == "" {
		productPath = "/products/"
	}
	slugs := make([]string, 0, len(excluded))
	for _, slug := range excluded {
		if slug = strings.ToLower(strings.TrimSpace(slug)); slug != "" {
			slugs = append(slugs, slug)
		}
	}
	return &Catalog{base: base, productPath: strings.ToLower(productPath), excluded: slugs}, nil
}

// FromConfig builds a Catalog from the [catalog] section.
func FromConfig(cfg *config.Config) (*Catalog, error) {
	return New(cfg.Catalog.BaseURL, cfg.Catalog.ProductPath, cfg.Catalog.ExcludedProducts)
}

// BaseURL returns the catalog root without a trailing slash.
func (c *Catalog) BaseURL() string {
	return c.base.String()
}

// Host returns the catalog host without a leading "www.".
func (c *Catalog) Host() string {
	return strings.TrimPrefix(strings.ToLower(c.base.Hostname()), "www.")
}

// ProductPath returns the product path marker, e.g. "/products/".
func (c *Catalog) ProductPath() string {
	return c.productPath
}

// SearchURL returns the catalog's own search page for query.
func (c *Catalog) SearchURL(query string) string {
	return c.BaseURL() + "/search?q=" + url.QueryEscape(query)
}

// CleanURL strips the query string and fragment and lowercases the result.
func CleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToLower(raw)
}

// Resolve turns an href found in search results into an absolute URL on the
// catalog host. Relative links resolve against the base URL. ok is false for
// links on other hosts or unparseable links.
func (c *Catalog) Resolve(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := c.base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	if !c.onHost(abs.Hostname()) {
		return "", false
	}
	return abs.String(), true
}

func (c *Catalog) onHost(host string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	return host == c.Host()
}

// IsProductURL reports whether raw is an absolute URL on the catalog host whose
// path contains the product path marker.
func (c *Catalog) IsProductURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return false
	}
	if !c.onHost(parsed.Hostname()) {
		return false
	}
	return strings.Contains(strings.ToLower(parsed.Path), c.productPath)
}

// IsExcluded reports whether raw names a promotional or non-instructional
// product.
func (c *Catalog) IsExcluded(raw string) bool {
	cleaned := CleanURL(raw)
	for _, slug := range c.excluded {
		if strings.Contains(cleaned, slug) {
			return true
		}
	}
	return false
}

// Accepts combines Resolve, IsProductURL and IsExcluded. It returns the
// absolute product URL when href is a usable candidate.
func (c *Catalog) Accepts(href string) (string, bool) {
	abs, ok := c.Resolve(href)
	if !ok || !c.IsProductURL(abs) || c.IsExcluded(abs) {
		return "", false
	}
	return abs, true
}

// Slug returns the lowercase path segment following the product path marker.
func (c *Catalog) Slug(raw string) string {
	cleaned := CleanURL(raw)
	idx := strings.LastIndex(cleaned, c.productPath)
	if idx < 0 {
		return ""
	}
	slug := cleaned[idx+len(c.productPath):]
	if cut := strings.IndexByte(slug, '/'); cut >= 0 {
		slug = slug[:cut]
	}
	return slug
}

// InstructorTokens derives instructor name parts from a product URL: the
// slug is split on hyphens and up to three segments of at least two
// characters following the first "by" segment are returned.
func (c *Catalog) InstructorTokens(raw string) []string {
	parts := strings.Split(c.Slug(raw), "-")
	for i, part := range parts {
		if part != "by" {
			continue
		}
		var tokens []string
		end := min(i+1+maxURLInstructorTokens, len(parts))
		for _, candidate := range parts[i+1 : end] {
			if len(candidate) >= 2 {
				tokens = append(tokens, candidate)
			}
		}
		return tokens
	}
	return nil
}

// InstructorName returns the URL-derived instructor title-cased for display.
func (c *Catalog) InstructorName(raw string) string {
	return identity.Title(c.InstructorTokens(raw))
}
