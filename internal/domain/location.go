package domain

// Province is a first-level administrative unit.
type Province struct {
	Code         int    `json:"code"`
	Name         string `json:"name"`
	DivisionType string `json:"division_type"`
	Codename     string `json:"codename"`
	DisplayName  string `json:"display_name"`
}

// District belongs to a province.
type District struct {
	Code         int    `json:"code"`
	Name         string `json:"name"`
	DivisionType string `json:"division_type"`
	Codename     string `json:"codename"`
	ProvinceCode int    `json:"province_code"`
	DisplayName  string `json:"display_name"`
}

// Ward belongs to a district.
type Ward struct {
	Code         int    `json:"code"`
	Name         string `json:"name"`
	DivisionType string `json:"division_type"`
	Codename     string `json:"codename"`
	DistrictCode int    `json:"district_code"`
	DisplayName  string `json:"display_name"`
}
