package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/boerse-charts/internal/statetree"
	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

func TestCheckPayloadVersion(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		expectError bool
	}{
		{
			name:        "no version announced",
			payload:     `{"state":{"instrument":{}}}`,
			expectError: false,
		},
		{
			name:        "supported major",
			payload:     `{"config":{"version":"1.4.2"}}`,
			expectError: false,
		},
		{
			name:        "supported major with v prefix",
			payload:     `{"config":{"version":"v1.0.0"}}`,
			expectError: false,
		},
		{
			name:        "older major",
			payload:     `{"config":{"version":"0.9.3"}}`,
			expectError: false,
		},
		{
			name:        "newer minor and patch",
			payload:     `{"config":{"version":"1.99.99"}}`,
			expectError: false,
		},
		{
			name:        "newer major rejected",
			payload:     `{"config":{"version":"2.0.0"}}`,
			expectError: true,
		},
		{
			name:        "much newer major rejected",
			payload:     `{"config":{"version":"14.1.0"}}`,
			expectError: true,
		},
		{
			name:        "development build accepted",
			payload:     `{"config":{"version":"main"}}`,
			expectError: false,
		},
		{
			name:        "unparseable version accepted",
			payload:     `{"config":{"version":"not-a-version"}}`,
			expectError: false,
		},
		{
			name:        "version at state app path",
			payload:     `{"state":{"app":{"version":"3.0.0"}}}`,
			expectError: true,
		},
		{
			name:        "version in flat array block",
			payload:     `["AppVersion","6a9c2e58-1b1f-4f7e-9d3a-000000000000","{\"version\":\"2.1.0\"}"]`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := statetree.Parse([]byte(tt.payload))
			require.NoError(t, err)

			err = CheckPayloadVersion(tree)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeStateVersionUnsupported))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
