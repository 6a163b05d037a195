package model

// ContractNews is a raw contract-award news item produced by a source,
// before qualification.
type ContractNews struct {
	Title         string
	Company       string
	ProjectType   string
	Location      string
	ContractValue string
	DatePublished string
	SourceURL     string
	Description   string
}
