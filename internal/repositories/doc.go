// Package repositories implements SQLite persistence for the local content store.
//
// The repositories are the concrete "local store" the migration core calls
// into. Each one covers a natural-key surface:
//   - [UserRepository] : username/email lookups, identity creation, reference metadata
//   - [TermRepository] : taxonomy-scoped slug lookups, hierarchy-aware creation
//   - [ContentRepository] : guid/post_name lookups for posts and attachments,
//     metadata attachment, and taxonomy term assignment
//
// Lookups distinguish "no match" (nil, nil) from infrastructure failure
// (nil, err): the classifier and importer treat absence as data, never as an
// error. All repositories also serve paginated wire-form listings for the
// serving side of the protocol.
package repositories
