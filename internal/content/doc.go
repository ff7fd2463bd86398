// Package content loads the page tree into PageRecords.
//
// Each build reads every page file exactly once: front matter is decoded,
// drafts are dropped, markdown is rendered and the raw body is kept for the
// plain-text alternates. A synthetic tags index is added on top.
package content
