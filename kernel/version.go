// Copyright 2024 Mikhail Klementev. All rights reserved.
// Use of this source code is governed by a AGPLv3 license
// (or later) that can be found in the LICENSE file.

package kernel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// a digit followed by more digits, decimal points, dashes or letters
var versionRe = regexp.MustCompile(`[0-9][0-9A-Za-z.-]+`)

// ParseError means no kernel version token was found in a line of
// output. There is nothing to compare without a version, so this is
// always fatal for the operation that hit it.
type ParseError struct {
	Line string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to extract kernel version from line %q",
		e.Line)
}

// ExtractVersion pulls a kernel version token (e.g. 4.7.2-201) out
// of a line of free-form output: a package list entry, uname -r, etc.
// Strip trailing newlines before splitting multiline output so empty
// lines do not end up here.
func ExtractVersion(line string) (version string, err error) {
	version = versionRe.FindString(line)
	if version == "" {
		err = &ParseError{Line: line}
		return
	}

	// A separator between the version and the surrounding text is
	// sometimes picked up as the last character.
	last := version[len(version)-1]
	if !isAlnum(last) {
		version = version[:len(version)-1]
	}
	return
}

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' ||
		c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z'
}

// CompareVersions orders two version tokens the way package versions
// are conventionally ordered: split on . and - boundaries, compare
// segment by segment, numerically when both segments are numeric and
// lexically otherwise. A version that is a prefix of a longer one
// sorts below it. Returns 1 if a is newer, -1 if b is newer, 0 if
// they are equal.
func CompareVersions(a, b string) int {
	as := segments(a)
	bs := segments(b)

	for i := 0; i < len(as) && i < len(bs); i++ {
		c := compareSegment(as[i], bs[i])
		if c != 0 {
			return c
		}
	}

	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

func segments(version string) []string {
	return strings.FieldsFunc(version, func(r rune) bool {
		return r == '.' || r == '-'
	})
}

func compareSegment(a, b string) int {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)

	if aerr == nil && berr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}

	return strings.Compare(a, b)
}
