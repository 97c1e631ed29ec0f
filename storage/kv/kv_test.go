package kv

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/alama/core/academic"
)

func Test_memoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get("semesters/abc")
	assert.Equal(t, academic.ErrCacheMiss, err)

	assert.NoError(t, store.Set("semesters/abc", []byte(`{"semesters":[]}`)))

	got, err := store.Get("semesters/abc")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"semesters":[]}`), got)

	// the stored value must not alias the caller's slice
	got[0] = 'X'
	got2, err := store.Get("semesters/abc")
	assert.NoError(t, err)
	assert.Equal(t, byte('{'), got2[0])

	assert.NoError(t, store.Remove("semesters/abc"))
	_, err = store.Get("semesters/abc")
	assert.Equal(t, academic.ErrCacheMiss, err)
}

func Test_fileStore(t *testing.T) {
	dir, err := ioutil.TempDir("", "alama-kv-test")
	if err != nil {
		t.Fatalf("TempDir() failed: %v", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	_, err = store.Get("profile/abc")
	assert.Equal(t, academic.ErrCacheMiss, err)

	assert.NoError(t, store.Set("profile/abc", []byte(`{"full_name":"Amina"}`)))

	got, err := store.Get("profile/abc")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"full_name":"Amina"}`), got)

	// overwrites replace in place
	assert.NoError(t, store.Set("profile/abc", []byte(`{}`)))
	got, err = store.Get("profile/abc")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{}`), got)

	// a second store over the same dir sees the entries
	store2, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	got, err = store2.Get("profile/abc")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{}`), got)

	assert.NoError(t, store.Remove("profile/abc"))
	assert.NoError(t, store.Remove("profile/abc")) // idempotent
	_, err = store.Get("profile/abc")
	assert.Equal(t, academic.ErrCacheMiss, err)
}
