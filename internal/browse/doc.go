// package browse models the catalog as a navigable tree of media items.
//
// Every node in the tree is addressed by a hierarchical media id. Category
// segments are joined with '/', and a trailing '|' separates the category
// path from a playable track id. The Tree resolves a media id to its
// children by combining the catalog cache with playlist lookups against the
// backing library service.
package browse
