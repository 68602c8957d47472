package location

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	prefixCity     = "Thành phố"
	prefixProvince = "Tỉnh"
	prefixUrban    = "Quận"
	prefixRural    = "Huyện"
	prefixTown     = "Thị xã"
	prefixWard     = "Phường"
	prefixCommune  = "Xã"
	prefixTownlet  = "Thị trấn"
)

// Centrally governed cities carry the city prefix.
var centralCities = []string{"Hà Nội", "Hồ Chí Minh", "Hải Phòng", "Đà Nẵng", "Cần Thơ"}

// ProvinceDisplayName prefixes a province name unless it already carries a prefix.
func ProvinceDisplayName(name, divisionType string) string {
	name = strings.TrimSpace(name)
	if hasAnyPrefix(name, prefixCity, prefixProvince) {
		return name
	}
	if isCentralCity(name) || strings.Contains(strings.ToLower(divisionType), strings.ToLower(prefixCity)) {
		return prefixCity + " " + name
	}
	return prefixProvince + " " + name
}

// DistrictDisplayName prefixes a district name unless it already carries a prefix.
func DistrictDisplayName(name, divisionType string) string {
	name = strings.TrimSpace(name)
	if hasAnyPrefix(name, prefixUrban, prefixRural, prefixTown, prefixCity) {
		return name
	}
	if prefix, ok := matchDivision(divisionType, prefixUrban, prefixRural, prefixTown, prefixCity); ok {
		return prefix + " " + name
	}
	if isNumeric(name) {
		return prefixUrban + " " + name
	}
	return prefixRural + " " + name
}

// WardDisplayName prefixes a ward name unless it already carries a prefix.
func WardDisplayName(name, divisionType string) string {
	name = strings.TrimSpace(name)
	if hasAnyPrefix(name, prefixWard, prefixCommune, prefixTownlet) {
		return name
	}
	if prefix, ok := matchDivision(divisionType, prefixTownlet, prefixWard, prefixCommune); ok {
		return prefix + " " + name
	}
	if isNumeric(name) {
		return prefixWard + " " + name
	}
	return prefixCommune + " " + name
}

// SortByName orders items by key using Vietnamese collation.
func SortByName[T any](items []T, key func(T) string) {
	// Collators carry scratch buffers and are not safe for concurrent use.
	c := collate.New(language.Vietnamese)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(key(items[i]), key(items[j])) < 0
	})
}

// SortNames is SortByName for plain strings.
func SortNames(names []string) {
	SortByName(names, func(s string) string { return s })
}

func hasAnyPrefix(name string, prefixes ...string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range prefixes {
		p := strings.ToLower(prefix)
		if lower == p || strings.HasPrefix(lower, p+" ") {
			return true
		}
	}
	return false
}

// matchDivision maps the API's division_type (e.g. "quận", "thị trấn") to a prefix.
// Longer prefixes are listed first by callers so "thị trấn" wins over "xã".
func matchDivision(divisionType string, prefixes ...string) (string, bool) {
	dt := strings.ToLower(strings.TrimSpace(divisionType))
	if dt == "" {
		return "", false
	}
	for _, prefix := range prefixes {
		if strings.Contains(dt, strings.ToLower(prefix)) {
			return prefix, true
		}
	}
	return "", false
}

func isCentralCity(name string) bool {
	for _, city := range centralCities {
		if strings.EqualFold(name, city) {
			return true
		}
	}
	return false
}

func isNumeric(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
