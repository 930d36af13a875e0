package commands

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theshubhamgundu/sahaaya/internal/cli/client"
	"github.com/theshubhamgundu/sahaaya/internal/cli/loader"
)

func TestOpenCells(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "8"}, openCells([]string{"X", "", "", "O", "X", "O", "X", "O", ""}))
	assert.Empty(t, openCells([]string{"X", "O", "X", "X", "O", "O", "O", "X", "X"}))
}

func TestApplyRequest_PostsToMatchingFlow(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		wantPath string
		reply    string
	}{
		{
			name:     "legal",
			file:     "kind: Legal\nspec:\n  situationDescription: deposit withheld\n",
			wantPath: "/api/provide-relevant-legal-guidance",
			reply:    `{"legalGuidance":{"legalRights":"r","applicableLaws":"l","complaintFilingProcedures":"c","verifiedHelplines":"h","ngos":"n","supportCenters":"s"},"includeResources":true}`,
		},
		{
			name:     "distress",
			file:     "kind: Distress\nspec:\n  userInput: I am fine\n",
			wantPath: "/api/detect-emotional-distress",
			reply:    `{"emotionalDistressDetected":false,"legalInformationNeeded":false,"detectedLanguage":"en"}`,
		},
		{
			name:     "sign response",
			file:     "kind: SignResponse\nspec:\n  interpretedGestureText: hello\n",
			wantPath: "/api/generate-sign-language-response",
			reply:    `{"responseText":"Hi there"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				_, _ = io.WriteString(w, tt.reply)
			}))
			defer srv.Close()

			apiClient, err := client.NewAPIClient(srv.URL)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "req.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o600))
			req, err := loader.LoadFromFile(path)
			require.NoError(t, err)

			out, err := applyRequest(context.Background(), apiClient, req)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
			assert.Equal(t, tt.wantPath, gotPath)
		})
	}
}

func TestApplyRequest_InvalidSpecSkipsServer(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	apiClient, err := client.NewAPIClient(srv.URL)
	require.NoError(t, err)
	req, err := loader.Parse([]byte("kind: Legal\nspec: {}\n"))
	require.NoError(t, err)

	_, err = applyRequest(context.Background(), apiClient, req)
	assert.Error(t, err)
	assert.False(t, called)
}
