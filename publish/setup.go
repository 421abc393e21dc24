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
	"fmt"
	"io"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

// RunOAuthSetup walks the operator through the manual OAuth consent
// flow and persists the resulting token at tokenFile. When the token
// file already holds a valid token the flow is skipped.
//
// The flow is non-interactive on our side: the authorization URL is
// printed to out and the pasted authorization code is read from in, so
// it works over SSH on the machine that owns the export directory.
func RunOAuthSetup(ctx context.Context, credentialsFile, tokenFile string, in io.Reader, out io.Writer) error {
	if token, err := tokenFromFile(tokenFile); err == nil && token.Valid() {
		fmt.Fprintf(out, "Existing token at %s is still valid, nothing to do.\n", tokenFile)
		return nil
	}

	secret, err := os.ReadFile(credentialsFile)
	if err != nil {
		return fmt.Errorf("reading OAuth client secret: %w", err)
	}
	config, err := google.ConfigFromJSON(secret, sheets.SpreadsheetsScope, drive.DriveScope)
	if err != nil {
		return fmt.Errorf("parsing OAuth client secret: %w", err)
	}

	authURL := config.AuthCodeURL("state-token",
		oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(out, "Open this URL in your browser and authorize access:\n\n%s\n\n", authURL)
	fmt.Fprint(out, "Enter authorization code: ")

	var code string
	if _, err := fmt.Fscan(in, &code); err != nil {
		return fmt.Errorf("reading authorization code: %w", err)
	}

	token, err := config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	if err := saveToken(tokenFile, token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	fmt.Fprintf(out, "\nToken saved to %s. OAuth setup complete.\n", tokenFile)
	return nil
}
