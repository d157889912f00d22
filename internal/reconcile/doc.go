// Package reconcile reuses previously stored product URLs for newly grouped
// series before any network search runs.
//
// Every resolvable group is scored against every stored URL whose slug names
// an instructor after a "by" segment. Pairs are then assigned greedily from
// the highest score down so a URL serves at most one group and a group gets
// at most one URL. Ties fall back to group order, then URL order.
package reconcile
