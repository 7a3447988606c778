package domain

import (
	"strings"

	"github.com/pkg/errors"
)

// WorldCountry é o código usado pela Similarweb para tráfego global
const WorldCountry = "world"

type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Countries é a lista fechada de países aceitos no filtro
var Countries = []Country{
	{Code: WorldCountry, Name: "Worldwide"},
	{Code: "ae", Name: "United Arab Emirates"},
	{Code: "ar", Name: "Argentina"},
	{Code: "at", Name: "Austria"},
	{Code: "au", Name: "Australia"},
	{Code: "be", Name: "Belgium"},
	{Code: "bg", Name: "Bulgaria"},
	{Code: "br", Name: "Brazil"},
	{Code: "ca", Name: "Canada"},
	{Code: "ch", Name: "Switzerland"},
	{Code: "cl", Name: "Chile"},
	{Code: "cn", Name: "China"},
	{Code: "co", Name: "Colombia"},
	{Code: "cz", Name: "Czech Republic"},
	{Code: "de", Name: "Germany"},
	{Code: "dk", Name: "Denmark"},
	{Code: "eg", Name: "Egypt"},
	{Code: "es", Name: "Spain"},
	{Code: "fi", Name: "Finland"},
	{Code: "fr", Name: "France"},
	{Code: "gb", Name: "United Kingdom"},
	{Code: "gr", Name: "Greece"},
	{Code: "hk", Name: "Hong Kong"},
	{Code: "hr", Name: "Croatia"},
	{Code: "hu", Name: "Hungary"},
	{Code: "id", Name: "Indonesia"},
	{Code: "ie", Name: "Ireland"},
	{Code: "il", Name: "Israel"},
	{Code: "in", Name: "India"},
	{Code: "it", Name: "Italy"},
	{Code: "jp", Name: "Japan"},
	{Code: "ke", Name: "Kenya"},
	{Code: "kr", Name: "South Korea"},
	{Code: "kz", Name: "Kazakhstan"},
	{Code: "ma", Name: "Morocco"},
	{Code: "mx", Name: "Mexico"},
	{Code: "my", Name: "Malaysia"},
	{Code: "ng", Name: "Nigeria"},
	{Code: "nl", Name: "Netherlands"},
	{Code: "no", Name: "Norway"},
	{Code: "nz", Name: "New Zealand"},
	{Code: "pe", Name: "Peru"},
	{Code: "ph", Name: "Philippines"},
	{Code: "pk", Name: "Pakistan"},
	{Code: "pl", Name: "Poland"},
	{Code: "pt", Name: "Portugal"},
	{Code: "ro", Name: "Romania"},
	{Code: "rs", Name: "Serbia"},
	{Code: "ru", Name: "Russia"},
	{Code: "sa", Name: "Saudi Arabia"},
	{Code: "se", Name: "Sweden"},
	{Code: "sg", Name: "Singapore"},
	{Code: "sk", Name: "Slovakia"},
	{Code: "th", Name: "Thailand"},
	{Code: "tr", Name: "Turkey"},
	{Code: "tw", Name: "Taiwan"},
	{Code: "ua", Name: "Ukraine"},
	{Code: "us", Name: "United States"},
	{Code: "uy", Name: "Uruguay"},
	{Code: "vn", Name: "Vietnam"},
	{Code: "za", Name: "South Africa"},
}

var countriesByCode = func() map[string]Country {
	index := make(map[string]Country, len(Countries))
	for _, c := range Countries {
		index[c.Code] = c
	}
	return index
}()

// LookupCountry aceita o código em qualquer caixa ("US", "us")
func LookupCountry(code string) (Country, error) {
	country, ok := countriesByCode[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Country{}, errors.Wrapf(ErrInvalidInput, "unsupported country %q", code)
	}

	return country, nil
}
