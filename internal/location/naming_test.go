package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProvinceDisplayName(t *testing.T) {
	cases := []struct{ name, divisionType, want string }{
		{"Hà Nội", "", "Thành phố Hà Nội"},
		{"Đà Nẵng", "", "Thành phố Đà Nẵng"},
		{"An Giang", "tỉnh", "Tỉnh An Giang"},
		{"Huế", "thành phố trung ương", "Thành phố Huế"},
		{"Thành phố Hồ Chí Minh", "thành phố trung ương", "Thành phố Hồ Chí Minh"},
		{"Tỉnh Bình Dương", "tỉnh", "Tỉnh Bình Dương"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ProvinceDisplayName(tc.name, tc.divisionType), tc.name)
	}
}

func TestDistrictDisplayName(t *testing.T) {
	cases := []struct{ name, divisionType, want string }{
		{"Quận 1", "quận", "Quận 1"},
		{"1", "", "Quận 1"},
		{"Ba Đình", "quận", "Quận Ba Đình"},
		{"Sơn Tây", "thị xã", "Thị xã Sơn Tây"},
		{"Thủ Đức", "thành phố", "Thành phố Thủ Đức"},
		{"Đông Anh", "", "Huyện Đông Anh"},
		{"Huyện Gia Lâm", "huyện", "Huyện Gia Lâm"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DistrictDisplayName(tc.name, tc.divisionType), tc.name)
	}
}

func TestWardDisplayName(t *testing.T) {
	cases := []struct{ name, divisionType, want string }{
		{"Phường Bến Nghé", "phường", "Phường Bến Nghé"},
		{"12", "", "Phường 12"},
		{"Văn Điển", "thị trấn", "Thị trấn Văn Điển"},
		{"Tân Lập", "", "Xã Tân Lập"},
		{"Xã Tân Lập", "xã", "Xã Tân Lập"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WardDisplayName(tc.name, tc.divisionType), tc.name)
	}
}

func TestSortNames_VietnameseCollation(t *testing.T) {
	names := []string{"Bình Dương", "An Giang"}
	SortNames(names)
	assert.Equal(t, []string{"An Giang", "Bình Dương"}, names)

	// Byte order would put "Ân Thi" after "Bắc Giang".
	names = []string{"Bắc Giang", "Ân Thi", "An Giang"}
	SortNames(names)
	assert.Equal(t, []string{"An Giang", "Ân Thi", "Bắc Giang"}, names)
}
