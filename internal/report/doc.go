// SPDX-License-Identifier: MPL-2.0

// Package report decodes the split-package scanner's text output into a lazy
// stream of package records.
//
// # Grammar
//
// The report is line oriented. Every line is exactly one of:
//
//	blank    only whitespace                                    skipped silently
//	comment  first non-space character is '#'                   skipped silently
//	data     first field is the keyword "package"               decoded
//	other    anything else (banner, progress, summary lines)    skipped, logged at debug
//
// A data line has the form
//
//	package <pkgname> <module>[@<version>] [<location>]
//
// where fields are separated by runs of whitespace, <pkgname> is a dotted
// Java identifier path (com.acme.util), <module> names the owning module or
// jar, <version> is optional but non-empty when the '@' is present, and
// <location> is an optional single token (typically the jar path).
//
// A data line that does not match this form is malformed. Malformed data is
// never skipped: the stream yields a *ParseError carrying the line number and
// content and then ends, because a silently dropped record could hide a split.
//
// The grammar sits behind the Grammar interface so a different tool format
// can replace it without touching aggregation.
package report
