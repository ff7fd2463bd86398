// Package pagegraph derives the cross-page model of a site from a flat set of
// page records: sibling order, parent/child summaries, breadcrumbs and the
// navigation list.
//
// The result, Metadata, is immutable and rebuilt wholesale per generation.
// Every derived collection is produced by iterating sorted keys, so building
// twice from the same records yields the same Digest.
package pagegraph
