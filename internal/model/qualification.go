package model

import "strings"

// AllowedTags are the industry/sub-category tags the qualifier may assign.
var AllowedTags = []string{
	"Automotive-Confirmed",
	"Automotive-Predictive_Alert",
	"Infrastructure-Contract_Won",
	"Infrastructure-Ongoing_Tender",
	"Realty-Announced",
	"Realty-Predictive_Alert",
	"Renewable_Energy-Contract_Won",
	"Renewable_Energy-Ongoing_Tender",
	"Renewable_Energy-Predictive_Alert",
}

// Qualification is the verdict produced for a single news item.
type Qualification struct {
	Qualified         bool   `json:"qualified"`
	Tag               string `json:"tag"`
	SteelRequirements string `json:"steel_requirements"`
	PotentialValue    string `json:"potential_value"`
	TargetCompany     string `json:"target_company"`
	Urgency           string `json:"urgency"`
	Reasoning         string `json:"reasoning"`
}

func IsAllowedTag(tag string) bool {
	for _, t := range AllowedTags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// UrgencyRank orders urgency values for display sorting. Unknown values
// rank below low.
func UrgencyRank(urgency string) int {
	switch strings.ToLower(strings.TrimSpace(urgency)) {
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	default:
		return 0
	}
}
