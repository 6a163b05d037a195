package common

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// projectTypeMapping maps keywords found in announcement text to a project
// type label. Longer keywords win when several match.
var projectTypeMapping = map[string]string{
	// Energy and power
	"solar":            "Renewable Energy - Solar",
	"solar park":       "Renewable Energy - Solar",
	"solar power":      "Renewable Energy - Solar",
	"solar plant":      "Renewable Energy - Solar",
	"solar project":    "Renewable Energy - Solar",
	"solar energy":     "Renewable Energy - Solar",
	"wind":             "Renewable Energy - Wind",
	"wind farm":        "Renewable Energy - Wind",
	"wind power":       "Renewable Energy - Wind",
	"wind energy":      "Renewable Energy - Wind",
	"hydro":            "Renewable Energy - Hydro",
	"hydroelectric":    "Renewable Energy - Hydro",
	"hydropower":       "Renewable Energy - Hydro",
	"thermal":          "Power - Thermal",
	"coal":             "Power - Thermal",
	"gas":              "Power - Thermal/Gas",
	"power plant":      "Power Generation",
	"power generation": "Power Generation",
	"electricity":      "Power Generation",
	"transmission":     "Power Transmission",
	"substation":       "Power Transmission",
	"grid":             "Power Transmission",

	// Transportation
	"highway":    "Transportation - Highway",
	"expressway": "Transportation - Highway",
	"road":       "Transportation - Road",
	"roadway":    "Transportation - Road",
	"bridge":     "Transportation - Bridge",
	"flyover":    "Transportation - Bridge",
	"metro":      "Transportation - Metro",
	"railway":    "Transportation - Railway",
	"rail":       "Transportation - Railway",
	"airport":    "Transportation - Airport",
	"port":       "Transportation - Port",
	"terminal":   "Transportation - Port/Terminal",
	"logistics":  "Transportation - Logistics",

	// Construction
	"construction":    "Construction",
	"building":        "Construction - Building",
	"residential":     "Construction - Residential",
	"commercial":      "Construction - Commercial",
	"housing":         "Construction - Residential",
	"real estate":     "Real Estate",
	"property":        "Real Estate",
	"township":        "Urban Development",
	"smart city":      "Urban Development",
	"mixed-use":       "Real Estate - Mixed Use",
	"sez":             "Special Economic Zone",
	"industrial park": "Industrial Park",
	"tech park":       "IT/Tech Park",
	"it park":         "IT/Tech Park",
	"data center":     "Data Center",

	// Water
	"water supply":    "Water Infrastructure",
	"water treatment": "Water Infrastructure",
	"sewage":          "Water Infrastructure",
	"irrigation":      "Water Infrastructure",
	"pipeline":        "Pipeline",
	"water project":   "Water Infrastructure",
	"desalination":    "Water Infrastructure",
	"drainage":        "Water Infrastructure",
	"reservoir":       "Water Infrastructure",

	// Manufacturing
	"steel":           "Manufacturing - Steel",
	"iron":            "Manufacturing - Steel",
	"metal":           "Manufacturing - Metal",
	"metallurgy":      "Manufacturing - Metal",
	"cement":          "Manufacturing - Cement",
	"chemical":        "Manufacturing - Chemical",
	"petrochemical":   "Manufacturing - Petrochemical",
	"refinery":        "Manufacturing - Refinery",
	"textile":         "Manufacturing - Textile",
	"pharma":          "Manufacturing - Pharmaceutical",
	"food processing": "Manufacturing - Food Processing",
	"factory":         "Manufacturing",
	"plant":           "Manufacturing",
	"manufacturing":   "Manufacturing",
	"production":      "Manufacturing",

	// Default-ish
	"infrastructure": "Infrastructure",
	"project":        "General Project",
	"epc":            "EPC",
	"engineering":    "Engineering Services",
	"contract":       "Contract",
	"order":          "Order/Contract",
}

const DefaultProjectType = "Infrastructure Project"

var indianLocations = []string{
	"andhra pradesh", "arunachal pradesh", "assam", "bihar", "chhattisgarh", "goa", "gujarat",
	"haryana", "himachal pradesh", "jharkhand", "karnataka", "kerala", "madhya pradesh",
	"maharashtra", "manipur", "meghalaya", "mizoram", "nagaland", "odisha", "punjab", "rajasthan",
	"sikkim", "tamil nadu", "telangana", "tripura", "uttar pradesh", "uttarakhand", "west bengal",
	"delhi", "chandigarh", "puducherry", "ladakh", "jammu and kashmir", "lakshadweep",
	"andaman and nicobar",
	"mumbai", "bangalore", "bengaluru", "hyderabad", "chennai", "kolkata", "ahmedabad",
	"pune", "jaipur", "lucknow", "kanpur", "nagpur", "indore", "thane", "bhopal", "visakhapatnam",
	"surat", "coimbatore", "kochi", "vadodara", "agra", "nashik", "patna", "faridabad", "meerut",
	"rajkot", "kalyan", "vasai", "varanasi", "srinagar", "ghaziabad", "amritsar", "raipur",
}

var (
	inrPattern     = regexp.MustCompile(`(?:rs\.?|inr|₹)\s*(\d+(?:,\d+)*(?:\.\d+)?)\s*(?:crore|cr\.?|lakh|lac|million|mn|billion|bn)`)
	usdPattern     = regexp.MustCompile(`(?:usd|\$)\s*(\d+(?:,\d+)*(?:\.\d+)?)\s*(?:million|mn|billion|bn)`)
	valuePattern   = regexp.MustCompile(`(\d+(?:,\d+)*(?:\.\d+)?)\s*(?:crore|cr\.?|lakh|lac|million|mn|billion|bn|mw|gw|mwp)`)
	valueOfPattern = regexp.MustCompile(`(?:value|worth|amount|order value|contract value|size) of (?:rs\.?|inr|₹|usd|\$)?\s*(\d+(?:,\d+)*(?:\.\d+)?)\s*(?:crore|cr\.?|lakh|lac|million|mn|billion|bn)`)
	inLocPattern   = regexp.MustCompile(`in\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
)

// ExtractProjectType classifies text by the most specific matching keyword.
func ExtractProjectType(text string) string {
	lower := strings.ToLower(text)

	type match struct {
		keyword     string
		projectType string
	}
	matches := []match{}
	for keyword, projectType := range projectTypeMapping {
		if strings.Contains(lower, keyword) {
			matches = append(matches, match{keyword, projectType})
		}
	}
	if len(matches) == 0 {
		return DefaultProjectType
	}

	sort.Slice(matches, func(i, j int) bool {
		if len(matches[i].keyword) != len(matches[j].keyword) {
			return len(matches[i].keyword) > len(matches[j].keyword)
		}
		return matches[i].keyword < matches[j].keyword
	})
	return matches[0].projectType
}

// ExtractLocation finds an Indian state or major city mentioned in text, or
// falls back to an "in <Proper Name>" pattern.
func ExtractLocation(text string) string {
	lower := strings.ToLower(text)
	for _, location := range indianLocations {
		if strings.Contains(lower, location) {
			return titleCase(location)
		}
	}

	if m := inLocPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractContractValue pulls a monetary value out of announcement text.
// INR amounts take precedence over USD, explicit "value of" phrasing over
// bare number-with-unit matches.
func ExtractContractValue(text string) string {
	lower := strings.ToLower(text)

	if m := inrPattern.FindStringSubmatch(lower); m != nil {
		return "Rs. " + m[1] + " crore"
	}
	if m := usdPattern.FindStringSubmatch(lower); m != nil {
		return "USD " + m[1] + " million"
	}
	if m := valueOfPattern.FindStringSubmatch(lower); m != nil {
		switch {
		case strings.Contains(lower, "rs"), strings.Contains(lower, "inr"), strings.Contains(lower, "₹"):
			return "Rs. " + m[1] + " crore"
		case strings.Contains(lower, "usd"), strings.Contains(lower, "$"):
			return "USD " + m[1] + " million"
		default:
			return m[1] + " crore"
		}
	}
	if m := valuePattern.FindStringSubmatch(lower); m != nil {
		return m[1] + " crore"
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// ToInt64 coerces loosely typed JSON values into an int64.
func ToInt64(value any) int64 {
	switch v := value.(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case string:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return 0
}

// ToString coerces loosely typed JSON values into a string.
func ToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', 0, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
