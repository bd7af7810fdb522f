package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestClient_VerifyAppPin_StoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/verify-app-pin", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "1520", body["pin"])

		json.NewEncoder(w).Encode(map[string]string{"accessToken": "123.abc"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	token, err := c.VerifyAppPin(t.Context(), "1520")
	require.NoError(t, err)
	require.Equal(t, "123.abc", token)

	// Token kaydedildi — sonraki istekler header'da taşır.
	require.Equal(t, "123.abc", c.AccessToken())
}

func TestClient_HeaderInjection(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get(AccessTokenHeader)
		json.NewEncoder(w).Encode(map[string]any{"rooms": []any{}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetAccessToken("123.abc")

	_, err := c.ListChannels(t.Context())
	require.NoError(t, err)
	require.Equal(t, "123.abc", gotHeader)
}

func TestClient_ErrorBodyBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid PIN"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.VerifyAppPin(t.Context(), "0000")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.Equal(t, "invalid PIN", apiErr.Message)
}

func TestClient_VerifyAccessToken_EmptyShortCircuits(t *testing.T) {
	// Token yokken server'a hiç gidilmez.
	c := New("http://127.0.0.1:1") // bağlanılamaz adres
	valid, err := c.VerifyAccessToken(t.Context())
	require.NoError(t, err)
	require.False(t, valid)
}

func TestChannel_ConnectRoomName(t *testing.T) {
	def := Channel{Name: "ch-3"}
	require.Equal(t, "ch-3", def.ConnectRoomName())

	custom := Channel{Name: "squad", RoomName: "custom-1-ab"}
	require.Equal(t, "custom-1-ab", custom.ConnectRoomName())
}

func TestLoadOrCreateDeviceID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "device-id")

	id, err := LoadOrCreateDeviceID(path)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	// İkinci çağrı AYNI kimliği döner — cihaz başına bir kez üretilir.
	again, err := LoadOrCreateDeviceID(path)
	require.NoError(t, err)
	require.Equal(t, id, again)
}

func TestLoadOrCreateDeviceID_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "device-id")
	require.NoError(t, os.WriteFile(path, []byte("not-a-uuid"), 0600))

	id, err := LoadOrCreateDeviceID(path)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)
}
