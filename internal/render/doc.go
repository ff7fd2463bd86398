// Package render turns page Metadata into an immutable Site snapshot: one
// HTML document per page plus aliases, sitemap and feeds.
//
// Layouts come from an html/template set loaded from the theme. Pages
// authored as .html are themselves expanded as templates before the layout
// runs. Every page passes through the URL rewriter so that served and
// exported output only carries absolute links.
package render
