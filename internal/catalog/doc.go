// Package catalog holds knowledge of the catalog site's product URLs: URL
// cleaning, resolving search-result links, filtering promotional products,
// and reading the instructor back out of a product slug.
package catalog
