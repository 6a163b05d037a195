package model

import "time"

// Lead is a qualified business opportunity stored for the dashboard.
// JSON field names match the column headers the frontend was built against.
type Lead struct {
	ID                int32     `json:"-"`
	Title             string    `json:"Title"`
	Company           string    `json:"Company"`
	ProjectType       string    `json:"Project Type"`
	Location          string    `json:"Location"`
	ContractValue     string    `json:"Contract Value"`
	DatePublished     string    `json:"Date Published"`
	SourceURL         string    `json:"Source URL"`
	Tag               string    `json:"Tag"`
	SteelRequirements string    `json:"Steel Requirements"`
	PotentialValue    string    `json:"Potential Value"`
	TargetCompany     string    `json:"Target Company"`
	Urgency           string    `json:"Urgency"`
	Reasoning         string    `json:"Reasoning"`
	CreatedAt         time.Time `json:"-"`
}

type LeadCreate struct {
	Title             string
	Company           string
	ProjectType       string
	Location          string
	ContractValue     string
	DatePublished     string
	SourceURL         string
	Tag               string
	SteelRequirements string
	PotentialValue    string
	TargetCompany     string
	Urgency           string
	Reasoning         string
}

// NewLeadCreate combines a news item with its qualification verdict.
func NewLeadCreate(news ContractNews, q Qualification) LeadCreate {
	return LeadCreate{
		Title:             news.Title,
		Company:           news.Company,
		ProjectType:       news.ProjectType,
		Location:          news.Location,
		ContractValue:     news.ContractValue,
		DatePublished:     news.DatePublished,
		SourceURL:         news.SourceURL,
		Tag:               q.Tag,
		SteelRequirements: q.SteelRequirements,
		PotentialValue:    q.PotentialValue,
		TargetCompany:     q.TargetCompany,
		Urgency:           q.Urgency,
		Reasoning:         q.Reasoning,
	}
}
