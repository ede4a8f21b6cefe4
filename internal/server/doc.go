// Package server implements the serving side of the migration protocol.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Protocol Endpoints
//
// Every endpoint lives under /mmt/v1 and requires the hashed shared key in the
// X-MMT-KEY header; the key middleware compares digests in constant time and
// rejects mismatches with 401 before any handler runs.
//
//	GET  /mmt/v1/access       key check, answers {"access": true}
//	GET  /mmt/v1/users        paginated local users in wire form
//	GET  /mmt/v1/terms        paginated local terms, taxonomies and counts
//	GET  /mmt/v1/posts        paginated local posts with meta and terms
//	GET  /mmt/v1/media        paginated local attachments
//	POST /mmt/v1/posts/batch  ingest one page of posts, echo advanced state
//	POST /mmt/v1/media/batch  ingest one page of media, echo advanced state
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
