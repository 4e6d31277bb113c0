package model

// Placeholder is shown for any metadata field the provider did not return.
const Placeholder = "N/A"

// CompanyInfo is the sparse metadata record for a symbol. Every field is optional.
type CompanyInfo struct {
	Name    string `json:"name,omitempty"`
	Sector  string `json:"sector,omitempty"`
	Country string `json:"country,omitempty"`
	Website string `json:"website,omitempty"`
}

// InfoField is one labeled line of the metadata block.
type InfoField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Fields returns the four labeled metadata lines with placeholders for missing values.
func (c *CompanyInfo) Fields() []InfoField {
	var ci CompanyInfo
	if c != nil {
		ci = *c
	}
	return []InfoField{
		{Label: "Company name", Value: orPlaceholder(ci.Name)},
		{Label: "Sector", Value: orPlaceholder(ci.Sector)},
		{Label: "Country", Value: orPlaceholder(ci.Country)},
		{Label: "Website", Value: orPlaceholder(ci.Website)},
	}
}

func orPlaceholder(v string) string {
	if v == "" {
		return Placeholder
	}
	return v
}
