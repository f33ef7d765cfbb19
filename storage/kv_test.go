package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string
	Count uint64
}

func TestKVPutGetDelete(t *testing.T) {
	kv := NewKVStore(NewMemDB())

	var out record
	ok, err := kv.KVGet([]byte("records/1"), &out)
	require.NoError(t, err)
	require.False(t, ok)

	stored := record{Name: "solar", Count: 42}
	require.NoError(t, kv.KVPut([]byte("records/1"), stored))

	ok, err = kv.KVGet([]byte("records/1"), &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, stored, out)

	require.NoError(t, kv.KVDelete([]byte("records/1")))
	ok, err = kv.KVGet([]byte("records/1"), &out)
	require.NoError(t, err)
	require.False(t, ok)

	err = kv.KVPut(nil, stored)
	require.Error(t, err)
	_, err = kv.KVGet(nil, &out)
	require.Error(t, err)
}

func TestKVAppendDeduplicates(t *testing.T) {
	kv := NewKVStore(NewMemDB())
	key := []byte("index/listings")

	require.NoError(t, kv.KVAppend(key, []byte("a")))
	require.NoError(t, kv.KVAppend(key, []byte("b")))
	require.NoError(t, kv.KVAppend(key, []byte("a")))

	var list [][]byte
	require.NoError(t, kv.KVGetList(key, &list))
	require.Equal(t, [][]byte{[]byte("a"), []byte("b")}, list)
}

func TestKVGetListEmptyInitialisesSlice(t *testing.T) {
	kv := NewKVStore(NewMemDB())

	var list [][]byte
	require.NoError(t, kv.KVGetList([]byte("index/none"), &list))
	require.NotNil(t, list)
	require.Len(t, list, 0)

	require.Error(t, kv.KVGetList([]byte("index/none"), nil))
	var notSlice record
	require.Error(t, kv.KVGetList([]byte("index/none"), &notSlice))
}

func TestRoleMembership(t *testing.T) {
	kv := NewKVStore(NewMemDB())
	alice := []byte{0x01}
	bob := []byte{0x02}

	require.False(t, kv.HasRole("ROLE_LAUNCH_ADMIN", alice))
	require.NoError(t, kv.RoleGrant("ROLE_LAUNCH_ADMIN", alice))
	require.NoError(t, kv.RoleGrant("ROLE_LAUNCH_ADMIN", alice))
	require.True(t, kv.HasRole("ROLE_LAUNCH_ADMIN", alice))
	require.False(t, kv.HasRole("ROLE_LAUNCH_ADMIN", bob))
	require.False(t, kv.HasRole("ROLE_OTHER", alice))

	require.NoError(t, kv.RoleRevoke("ROLE_LAUNCH_ADMIN", alice))
	require.False(t, kv.HasRole("ROLE_LAUNCH_ADMIN", alice))

	require.Error(t, kv.RoleGrant("ROLE_LAUNCH_ADMIN", nil))
	require.False(t, kv.HasRole("ROLE_LAUNCH_ADMIN", nil))
}

func TestMemDBIsolation(t *testing.T) {
	db := NewMemDB()
	key := []byte("k")
	value := []byte("v")
	require.NoError(t, db.Put(key, value))

	// The stored copy must not alias the caller's slice.
	value[0] = 'x'
	got, err := db.Get(key)
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	// Nor must the returned copy alias the stored one.
	got[0] = 'y'
	again, err := db.Get(key)
	require.NoError(t, err)
	require.Equal(t, []byte("v"), again)

	ok, err := db.Has(key)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, db.Delete(key))
	_, err = db.Get(key)
	require.ErrorIs(t, err, ErrNotFound)
	ok, err = db.Has(key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPauseSetRoundTrip(t *testing.T) {
	kv := NewKVStore(NewMemDB())
	pauses := NewPauseSet(kv)

	require.False(t, pauses.IsPaused("launch"))
	require.NoError(t, pauses.SetPaused("launch", true))
	require.True(t, pauses.IsPaused("launch"))
	require.False(t, pauses.IsPaused("launchregistry"))
	require.NoError(t, pauses.SetPaused("launch", false))
	require.False(t, pauses.IsPaused("launch"))
	require.Error(t, pauses.SetPaused("", true))
}
