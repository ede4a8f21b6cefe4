// Package services implements the HTTP client side of the migration protocol.
//
// # Remote Source
//
// [RemoteSource] abstracts the site content is pulled from. The concrete
// [Client] speaks to the remote's /mmt/v1 collection endpoints, injecting the
// hashed shared key via the X-MMT-KEY header on every request.
//
// # Page Payloads
//
// Every collection response carries the same pagination envelope
// (page, per_page, total_pages, items); the terms response additionally lists
// the taxonomies present and per-taxonomy term counts.
//
// # Error Handling
//
// The client maps failures onto shared sentinels:
//   - [shared.ErrAuthFailed] : the remote rejected the shared key (401/403)
//   - [shared.ErrRemoteRequest] : network failure or any other non-2xx response
//
// A failed page fetch aborts the current transfer cycle; there is no automatic
// retry beyond the transport's own timeout.
package services
