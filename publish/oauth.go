// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

// newOAuthClient builds an HTTP client from an OAuth client secret file
// and a stored user token. Refreshed tokens are persisted back to the
// token file so the refresh survives restarts.
func newOAuthClient(ctx context.Context, credentialsFile, tokenFile string, logger *slog.Logger) (*http.Client, error) {
	secret, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading OAuth client secret: %w", err)
	}

	config, err := google.ConfigFromJSON(secret, sheets.SpreadsheetsScope, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parsing OAuth client secret: %w", err)
	}

	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("loading OAuth token (run \"quotesync oauth-setup\" first): %w", err)
	}

	source := &persistingTokenSource{
		source: config.TokenSource(ctx, token),
		path:   tokenFile,
		last:   token.AccessToken,
		logger: logger,
	}
	return oauth2.NewClient(ctx, source), nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, err
	}
	return token, nil
}

// persistingTokenSource writes the token file back whenever the
// underlying source hands out a refreshed access token. A failed write
// is logged only; the in-memory token still works for this run.
type persistingTokenSource struct {
	source oauth2.TokenSource
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.last {
		s.last = token.AccessToken
		if err := saveToken(s.path, token); err != nil {
			s.logger.Warn("cannot persist refreshed OAuth token", "path", s.path, "err", err)
		}
	}
	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
