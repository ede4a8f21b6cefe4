// Package migrate implements the content migration pipeline: classification of
// remote records against local natural keys, dependency-ordered import, and the
// paginated transfer loop that drives both.
//
// # Pipelines
//
// Each entity kind (users, terms, posts, media) gets a pipeline pairing a
// classifier with an importer. The static [Registry] maps kinds to pipelines;
// the [Engine] looks a pipeline up, then walks the remote collection page by
// page, feeding each page through it and advancing a [models.TransferState].
//
// # Classification
//
// Users partition three ways on username and email:
//
//	both match same user  -> referenced (reason username_and_email)
//	email matches         -> referenced (reason email)
//	username matches      -> conflicted (reason username)
//	neither               -> migrateable
//
// Terms partition two ways on (slug, taxonomy): a local match becomes a
// reference, anything else is migrateable. Posts and media classify inline
// during import, on guid.
//
// # Dependency Order
//
// Term hierarchy imports through a bounded worklist: terms whose parent slug
// has no local row yet are deferred to the next pass, and a pass that creates
// nothing fails the remainder rather than spinning. Posts gate on their
// featured image already existing locally, which is why media migrates first.
//
// # Sessions
//
// Conflicts accumulate in a [SessionCache] for the duration of a run and are
// drained into the final [Report]; nothing is silently discarded.
package migrate
