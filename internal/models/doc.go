// Package models defines the data model for the content merge/migration tool.
//
// The package contains two categories of types:
//
// 1. Remote records: field sets received from the source site's collection
// endpoints, immutable once decoded
//   - [RemoteUser] : identity records keyed by username and email
//   - [RemoteTerm] : taxonomy terms keyed by slug within a taxonomy
//   - [RemotePost] : posts and media attachments keyed by guid
//
// 2. Local rows and transfer bookkeeping:
//   - [User], [Term], [Post] : rows in the local content store
//   - [TransferState] : pagination and progress state round-tripped per cycle
//   - [ConflictEntry], [ConflictRef] : identity collisions accumulated per session
//   - [ImportOutcome] : per-item result of an import attempt
//
// Classification buckets ([UserBuckets], [TermBuckets]) partition a page of
// remote records into migrateable, conflicted, and referenced sets; posts and
// media classify inline during import because their dedup key (the rewritten
// guid) only exists once host rewriting context is available.
package models
