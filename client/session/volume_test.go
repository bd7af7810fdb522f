package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVolumeStore_DefaultAndSet(t *testing.T) {
	store := NewVolumeStore(filepath.Join(t.TempDir(), "volumes.json"))

	require.Equal(t, DefaultVolume, store.Get("unknown-device"))

	store.Set("device-a", 40)
	require.Equal(t, 40, store.Get("device-a"))

	// Clamp.
	store.Set("device-b", 150)
	require.Equal(t, 100, store.Get("device-b"))
	store.Set("device-c", -10)
	require.Equal(t, 0, store.Get("device-c"))
}

func TestVolumeStore_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volumes.json")

	store := NewVolumeStore(path)
	store.Set("device-a", 40)
	store.Set("device-b", 75)

	// "Restart": aynı dosyadan yeni store.
	reloaded := NewVolumeStore(path)
	require.Equal(t, 40, reloaded.Get("device-a"))
	require.Equal(t, 75, reloaded.Get("device-b"))
}

func TestVolumeStore_CorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volumes.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewVolumeStore(path)
	require.Equal(t, DefaultVolume, store.Get("device-a"))

	// Bozuk dosya üzerine sağlıklı yazılabilir.
	store.Set("device-a", 30)
	require.Equal(t, 30, NewVolumeStore(path).Get("device-a"))
}
