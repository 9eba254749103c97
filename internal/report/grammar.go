// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"strings"
	"unicode"
)

// Keyword opens every data line.
const Keyword = "package"

const (
	// KindBlank is an empty or whitespace-only line.
	KindBlank LineKind = iota
	// KindComment is a line whose first non-space character is '#'.
	KindComment
	// KindOther is a non-data line such as a banner or summary.
	KindOther
	// KindData is a decoded data line.
	KindData
)

type (
	// LineKind classifies a report line.
	LineKind int

	// Grammar decodes one report line. It returns KindData with a record, a
	// non-data kind with a zero record, or an error for malformed data.
	Grammar interface {
		Decode(line string) (PackageRecord, LineKind, error)
	}

	// LineGrammar is the default Grammar documented in the package comment.
	LineGrammar struct{}
)

// String returns a readable kind name.
func (k LineKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindComment:
		return "comment"
	case KindOther:
		return "other"
	case KindData:
		return "data"
	default:
		return fmt.Sprintf("LineKind(%d)", int(k))
	}
}

// Decode implements Grammar.
func (LineGrammar) Decode(line string) (PackageRecord, LineKind, error) {
	fields := strings.Fields(line)
	switch {
	case len(fields) == 0:
		return PackageRecord{}, KindBlank, nil
	case strings.HasPrefix(fields[0], "#"):
		return PackageRecord{}, KindComment, nil
	case fields[0] != Keyword:
		return PackageRecord{}, KindOther, nil
	}

	switch {
	case len(fields) == 1:
		return PackageRecord{}, KindData, ErrMissingPackage
	case len(fields) == 2:
		return PackageRecord{}, KindData, ErrMissingModule
	case len(fields) > 4:
		return PackageRecord{}, KindData, fmt.Errorf("%w: want at most 4, got %d", ErrTooManyFields, len(fields))
	}

	pkg := fields[1]
	if !ValidPackageName(pkg) {
		return PackageRecord{}, KindData, fmt.Errorf("%w %q", ErrInvalidPackageName, pkg)
	}

	name, version, hasVersion := strings.Cut(fields[2], "@")
	if name == "" {
		return PackageRecord{}, KindData, ErrMissingModule
	}
	if hasVersion && version == "" {
		return PackageRecord{}, KindData, fmt.Errorf("%w in %q", ErrEmptyVersion, fields[2])
	}

	rec := PackageRecord{
		Package: pkg,
		Module:  ModuleDetail{Name: name, Version: version},
	}
	if len(fields) == 4 {
		rec.Module.Location = fields[3]
	}
	return rec, KindData, nil
}

// ValidPackageName reports whether s is a dotted path of Java identifiers.
func ValidPackageName(s string) bool {
	if s == "" {
		return false
	}
	for ident := range strings.SplitSeq(s, ".") {
		if !validIdentifier(ident) {
			return false
		}
	}
	return true
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
