package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func writeClientSecret(t *testing.T, tokenURL string) string {
	t.Helper()
	secret := fmt.Sprintf(`{
	  "installed": {
	    "client_id": "client-id",
	    "client_secret": "client-secret",
	    "redirect_uris": ["urn:ietf:wg:oauth:2.0:oob"],
	    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
	    "token_uri": "%s"
	  }
	}`, tokenURL)
	path := filepath.Join(t.TempDir(), "client_secret.json")
	require.NoError(t, os.WriteFile(path, []byte(secret), 0600))
	return path
}

func TestRunOAuthSetupExchangesAndSavesToken(t *testing.T) {
	var gotCode string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotCode = r.FormValue("code")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at-1","token_type":"Bearer","refresh_token":"rt-1","expires_in":3600}`)
	}))
	defer server.Close()

	credentials := writeClientSecret(t, server.URL)
	tokenFile := filepath.Join(t.TempDir(), "token.json")

	var out bytes.Buffer
	err := RunOAuthSetup(context.Background(), credentials, tokenFile,
		strings.NewReader("pasted-code\n"), &out)

	require.NoError(t, err)
	assert.Equal(t, "pasted-code", gotCode)
	assert.Contains(t, out.String(), "accounts.google.com")
	assert.Contains(t, out.String(), "Token saved")

	data, err := os.ReadFile(tokenFile)
	require.NoError(t, err)
	token := &oauth2.Token{}
	require.NoError(t, json.Unmarshal(data, token))
	assert.Equal(t, "at-1", token.AccessToken)
	assert.Equal(t, "rt-1", token.RefreshToken)
}

func TestRunOAuthSetupSkipsValidToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token.json")
	token := &oauth2.Token{
		AccessToken: "still-good",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}
	require.NoError(t, saveToken(tokenFile, token))

	var out bytes.Buffer
	err := RunOAuthSetup(context.Background(), "/nonexistent/creds.json", tokenFile,
		strings.NewReader(""), &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "still valid")
}

func TestRunOAuthSetupBadExchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	credentials := writeClientSecret(t, server.URL)
	tokenFile := filepath.Join(t.TempDir(), "token.json")

	err := RunOAuthSetup(context.Background(), credentials, tokenFile,
		strings.NewReader("bad-code\n"), &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchanging authorization code")
	assert.NoFileExists(t, tokenFile)
}
