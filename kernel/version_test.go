package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVersion(t *testing.T) {
	assert := assert.New(t)

	version, err := ExtractVersion("4.7.2-201")
	assert.NoError(err)
	assert.Equal("4.7.2-201", version)

	version, err = ExtractVersion("kernel-4.7.2-201")
	assert.NoError(err)
	assert.Equal("4.7.2-201", version)

	version, err = ExtractVersion("linux-image-4.8.0-1 amd64 Linux kernel image")
	assert.NoError(err)
	assert.Equal("4.8.0-1", version)

	// trailing separator artifact is stripped
	version, err = ExtractVersion("kernel 5.10.0.")
	assert.NoError(err)
	assert.Equal("5.10.0", version)

	version, err = ExtractVersion("linux 5.12.1.arch1-1")
	assert.NoError(err)
	assert.Equal("5.12.1.arch1-1", version)
}

func TestExtractVersionNoMatch(t *testing.T) {
	assert := assert.New(t)

	for _, line := range []string{
		"",
		"no version here",
		"linux 4", // single digit is not a version
	} {
		_, err := ExtractVersion(line)
		assert.Error(err, "line %q", line)

		var parseErr *ParseError
		assert.ErrorAs(err, &parseErr)
	}
}

func TestCompareVersions(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []struct {
		a, b     string
		expected int
	}{
		{"4.7.2-201", "4.5.5", 1},
		{"4.5.5", "4.7.2-201", -1},
		{"5.10.0", "5.9.9", 1},
		{"4.7.2", "4.7.2", 0},
		{"4.7.2-201", "4.7.2-201", 0},

		// a prefix sorts below the longer version
		{"5.10", "5.10.0", -1},
		{"5.10.0-1", "5.10.0", 1},

		// non-numeric segments compare lexically
		{"4.7.2-a", "4.7.2-b", -1},
		{"5.12.1.arch1-1", "5.12.1.arch1-2", -1},
	} {
		assert.Equal(tc.expected, CompareVersions(tc.a, tc.b),
			"%s vs %s", tc.a, tc.b)
	}
}
