package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewithdevelpors/hackorbit/internal/entity"
)

func TestRemapFields(t *testing.T) {
	record := map[string]any{
		"fileType":             "python",
		"Raw File Link":        "https://raw.example.com/a",
		"Direct Download Link": "https://dl.example.com/a",
		"fileName":             "demo.py",
		"custom":               "kept as-is",
	}

	mapped := remapFields(record)

	require.Equal(t, "python", mapped["type"])
	require.Equal(t, "https://raw.example.com/a", mapped["rawFileLink"])
	require.Equal(t, "https://dl.example.com/a", mapped["directDownloadLink"])
	require.Equal(t, "demo.py", mapped["fileName"])
	require.Equal(t, "kept as-is", mapped["custom"])
}

func TestBuildFile(t *testing.T) {
	testCases := []struct {
		name        string
		record      map[string]any
		expectError string
		check       func(t *testing.T, file *entity.File)
	}{
		{
			name: "valid record with defaults",
			record: map[string]any{
				"imgUrl":   "x",
				"fileName": "demo.py",
				"fileType": "python",
				"category": "Free",
			},
			check: func(t *testing.T, file *entity.File) {
				require.Equal(t, "demo.py", file.FileName)
				require.Equal(t, "python", file.Type)
				require.Equal(t, entity.CategoryFree, file.Category)
				require.Equal(t, 0.0, file.Price)
				require.Equal(t, 0.0, file.Rating)
				require.Equal(t, int64(0), file.RatingsCount)
				require.False(t, file.CreatedDate.IsZero())
			},
		},
		{
			name: "price string with currency sign",
			record: map[string]any{
				"imgUrl":   "x",
				"fileName": "shop.zip",
				"type":     "html",
				"category": "paid",
				"price":    "$4.99",
			},
			check: func(t *testing.T, file *entity.File) {
				require.Equal(t, 4.99, file.Price)
			},
		},
		{
			name: "numeric price",
			record: map[string]any{
				"imgUrl":   "x",
				"fileName": "shop.zip",
				"type":     "html",
				"category": "paid",
				"price":    12.5,
			},
			check: func(t *testing.T, file *entity.File) {
				require.Equal(t, 12.5, file.Price)
			},
		},
		{
			name: "missing required field",
			record: map[string]any{
				"imgUrl":   "x",
				"type":     "python",
				"category": "free",
			},
			expectError: "missing required field: fileName",
		},
		{
			name: "invalid category",
			record: map[string]any{
				"imgUrl":   "x",
				"fileName": "demo.py",
				"type":     "python",
				"category": "premium",
			},
			expectError: "invalid category",
		},
		{
			name: "unparsable price defaults to zero",
			record: map[string]any{
				"imgUrl":   "x",
				"fileName": "demo.py",
				"type":     "python",
				"category": "free",
				"price":    "ask us",
			},
			check: func(t *testing.T, file *entity.File) {
				require.Equal(t, 0.0, file.Price)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			file, err := buildFile(tc.record)
			if tc.expectError != "" {
				require.ErrorContains(t, err, tc.expectError)
				return
			}

			require.NoError(t, err)
			tc.check(t, file)
		})
	}
}
