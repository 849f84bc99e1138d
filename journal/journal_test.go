package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJournal(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "test.db")

	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	err = j.Record("5.12.1", "nvidia.ko", true)
	assert.NoError(err)

	err = j.Record("5.12.1", "nvidia-uvm.ko", false)
	assert.NoError(err)

	entries, err := j.Entries(10)
	assert.NoError(err)
	assert.Len(entries, 2)

	// newest first
	assert.Equal("nvidia-uvm.ko", entries[0].Module)
	assert.False(entries[0].Ok)
	assert.Equal("nvidia.ko", entries[1].Module)
	assert.True(entries[1].Ok)

	e, err := j.Entry(entries[1].ID)
	assert.NoError(err)
	assert.Equal("5.12.1", e.Kernel)
	assert.Equal("nvidia.ko", e.Module)
}

func TestJournalLimit(t *testing.T) {
	assert := assert.New(t)

	j, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	for i := 0; i < 5; i++ {
		err = j.Record("5.12.1", "nvidia.ko", true)
		assert.NoError(err)
	}

	entries, err := j.Entries(3)
	assert.NoError(err)
	assert.Len(entries, 3)
}

func TestJournalReopen(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "test.db")

	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	err = j.Record("5.12.1", "nvidia.ko", true)
	assert.NoError(err)
	assert.NoError(j.Close())

	// version check passes on an existing database
	j, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	entries, err := j.Entries(10)
	assert.NoError(err)
	assert.Len(entries, 1)
}
