package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/codewithdevelpors/hackorbit/internal/entity"
)

// Source exports name their fields inconsistently. The mapping table is
// versioned so a new export format becomes a new version instead of more
// string matching inside validation.
const activeMappingVersion = "v1"

var fieldMappings = map[string]map[string]string{
	"v1": {
		"fileType":             "type",
		"File Name":            "fileName",
		"Short Description":    "shortDescription",
		"Full Description":     "pageDescription",
		"Direct Image Link":    "imgUrl",
		"Raw File Link":        "rawFileLink",
		"RawFileLink":          "rawFileLink",
		"Direct Download Link": "directDownloadLink",
		"DirectDownloadLink":   "directDownloadLink",
	},
}

var requiredFields = []string{"imgUrl", "fileName", "type", "category"}

var priceRegexp = regexp.MustCompile(`\$?(\d+(\.\d+)?)`)

// remapFields renames source keys to the canonical schema names. Unknown
// keys pass through unchanged.
func remapFields(record map[string]any) map[string]any {
	mapping := fieldMappings[activeMappingVersion]

	mapped := make(map[string]any, len(record))
	for key, value := range record {
		if canonical, ok := mapping[key]; ok {
			key = canonical
		}
		mapped[key] = value
	}

	return mapped
}

// buildFile remaps, normalizes and validates one raw record.
func buildFile(record map[string]any) (*entity.File, error) {
	mapped := remapFields(record)

	for _, field := range requiredFields {
		if asString(mapped[field]) == "" {
			return nil, fmt.Errorf("missing required field: %s", field)
		}
	}

	category := strings.ToLower(asString(mapped["category"]))
	if !entity.ValidCategory(category) {
		return nil, fmt.Errorf("invalid category: %s", asString(mapped["category"]))
	}

	file := &entity.File{
		ImgURL:             asString(mapped["imgUrl"]),
		FileName:           asString(mapped["fileName"]),
		Type:               asString(mapped["type"]),
		ShortDescription:   asString(mapped["shortDescription"]),
		PageDescription:    asString(mapped["pageDescription"]),
		Category:           category,
		Price:              asPrice(mapped["price"]),
		Rating:             asFloat(mapped["rating"]),
		RatingsCount:       int64(asFloat(mapped["ratingsCount"])),
		RawFileLink:        asString(mapped["rawFileLink"]),
		DirectDownloadLink: asString(mapped["directDownloadLink"]),
		CreatedDate:        time.Now(),
	}

	if file.Price < 0 {
		return nil, fmt.Errorf("negative price: %v", file.Price)
	}

	return file, nil
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}

	return ""
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}

	return 0
}

// asPrice also accepts formatted strings like "$4.99".
func asPrice(v any) float64 {
	if s, ok := v.(string); ok {
		m := priceRegexp.FindStringSubmatch(s)
		if m == nil {
			return 0
		}

		p, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0
		}

		return p
	}

	return asFloat(v)
}
