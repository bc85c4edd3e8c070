package normalizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxtech-lab/boerse-charts/internal/statetree"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expectOK bool
		expected float64
	}{
		{
			name:     "plain number",
			payload:  `62.4`,
			expectOK: true,
			expected: 62.4,
		},
		{
			name:     "english decimal string",
			payload:  `"62.40"`,
			expectOK: true,
			expected: 62.4,
		},
		{
			name:     "german decimal string",
			payload:  `"62,40"`,
			expectOK: true,
			expected: 62.4,
		},
		{
			name:     "german with thousands separator",
			payload:  `"1.234,56"`,
			expectOK: true,
			expected: 1234.56,
		},
		{
			name:     "german millions",
			payload:  `"12.345.678,90"`,
			expectOK: true,
			expected: 12345678.90,
		},
		{
			name:     "dot only string stays english",
			payload:  `"1.234"`,
			expectOK: true,
			expected: 1.234,
		},
		{
			name:     "integer string",
			payload:  `"3521"`,
			expectOK: true,
			expected: 3521,
		},
		{
			name:     "whitespace padded",
			payload:  `" 62,40 "`,
			expectOK: true,
			expected: 62.4,
		},
		{
			name:     "garbage",
			payload:  `"n/a"`,
			expectOK: false,
		},
		{
			name:     "empty string",
			payload:  `""`,
			expectOK: false,
		},
		{
			name:     "boolean",
			payload:  `true`,
			expectOK: false,
		},
		{
			name:     "null",
			payload:  `null`,
			expectOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := statetree.Parse([]byte(tt.payload))
			require.NoError(t, err)

			f, ok := parseNumber(tree)
			if !tt.expectOK {
				assert.False(t, ok)

				return
			}
			require.True(t, ok)
			assert.InDelta(t, tt.expected, f, 1e-9)
		})
	}
}

func TestValidPrice(t *testing.T) {
	assert.True(t, validPrice(62.4))
	assert.True(t, validPrice(0.0001))
	assert.False(t, validPrice(0))
	assert.False(t, validPrice(-1))
	assert.False(t, validPrice(math.NaN()))
	assert.False(t, validPrice(math.Inf(1)))
	assert.False(t, validPrice(math.Inf(-1)))
}

func TestValidVolume(t *testing.T) {
	assert.True(t, validVolume(0))
	assert.True(t, validVolume(3521))
	assert.False(t, validVolume(-1))
	assert.False(t, validVolume(math.NaN()))
}

func TestFirstKey(t *testing.T) {
	tree, err := statetree.Parse([]byte(`{"close":10.5,"c":99}`))
	require.NoError(t, err)

	// Alias order decides when multiple aliases are present.
	node := firstKey(tree, closeKeys)
	require.True(t, node.Exists())
	f, _ := node.Float()
	assert.Equal(t, 99.0, f)

	assert.False(t, firstKey(tree, volumeKeys).Exists())
}
