// Package locations bundles the static Indonesian province/city dataset the
// organization forms select from. Codes follow the BPS numbering; the dataset
// is intentionally small and ships with the binary.
package locations

import "github.com/samber/lo"

type Province struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type City struct {
	Code         string `json:"code"`
	ProvinceCode string `json:"provinceCode"`
	Name         string `json:"name"`
}

var provinces = []Province{
	{Code: "31", Name: "DKI Jakarta"},
	{Code: "32", Name: "Jawa Barat"},
	{Code: "33", Name: "Jawa Tengah"},
	{Code: "34", Name: "DI Yogyakarta"},
	{Code: "35", Name: "Jawa Timur"},
	{Code: "36", Name: "Banten"},
	{Code: "51", Name: "Bali"},
	{Code: "12", Name: "Sumatera Utara"},
	{Code: "73", Name: "Sulawesi Selatan"},
}

var cities = []City{
	{Code: "3171", ProvinceCode: "31", Name: "Jakarta Selatan"},
	{Code: "3172", ProvinceCode: "31", Name: "Jakarta Timur"},
	{Code: "3173", ProvinceCode: "31", Name: "Jakarta Pusat"},
	{Code: "3174", ProvinceCode: "31", Name: "Jakarta Barat"},
	{Code: "3175", ProvinceCode: "31", Name: "Jakarta Utara"},
	{Code: "3273", ProvinceCode: "32", Name: "Bandung"},
	{Code: "3275", ProvinceCode: "32", Name: "Bekasi"},
	{Code: "3276", ProvinceCode: "32", Name: "Depok"},
	{Code: "3374", ProvinceCode: "33", Name: "Semarang"},
	{Code: "3372", ProvinceCode: "33", Name: "Surakarta"},
	{Code: "3471", ProvinceCode: "34", Name: "Yogyakarta"},
	{Code: "3578", ProvinceCode: "35", Name: "Surabaya"},
	{Code: "3573", ProvinceCode: "35", Name: "Malang"},
	{Code: "3671", ProvinceCode: "36", Name: "Tangerang"},
	{Code: "3674", ProvinceCode: "36", Name: "Tangerang Selatan"},
	{Code: "5171", ProvinceCode: "51", Name: "Denpasar"},
	{Code: "1275", ProvinceCode: "12", Name: "Medan"},
	{Code: "7371", ProvinceCode: "73", Name: "Makassar"},
}

// Provinces returns the full province list in dataset order.
func Provinces() []Province {
	out := make([]Province, len(provinces))
	copy(out, provinces)
	return out
}

// CitiesOf returns the cities of one province in dataset order.
func CitiesOf(provinceCode string) []City {
	return lo.Filter(cities, func(c City, _ int) bool {
		return c.ProvinceCode == provinceCode
	})
}

// ProvinceName resolves a province code; empty string when unknown.
func ProvinceName(code string) string {
	if p, ok := lo.Find(provinces, func(p Province) bool { return p.Code == code }); ok {
		return p.Name
	}
	return ""
}

// CityName resolves a city code; empty string when unknown.
func CityName(code string) string {
	if c, ok := lo.Find(cities, func(c City) bool { return c.Code == code }); ok {
		return c.Name
	}
	return ""
}

// IsValidProvince reports whether the code exists in the dataset.
func IsValidProvince(code string) bool {
	return ProvinceName(code) != ""
}

// IsValidCity reports whether the city code exists and belongs to the given
// province.
func IsValidCity(provinceCode, cityCode string) bool {
	c, ok := lo.Find(cities, func(c City) bool { return c.Code == cityCode })
	return ok && c.ProvinceCode == provinceCode
}
