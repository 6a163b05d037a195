package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"steelleads-go/internal/model"
)

const extractPromptTemplate = `Extract information about companies winning contracts in India that would require steel.
Focus on contracts related to infrastructure, construction, railways, highways, metros, buildings, etc.

The contract news must be from within this date range: %s

For each relevant contract news article, extract the following in JSON format:
{
    "title": "The title of the news article",
    "company": "The name of the company that won the contract",
    "project_type": "The type of project (infrastructure, railway, highway, etc.)",
    "location": "The location in India where the project will be executed",
    "contract_value": "The value of the contract if available",
    "date_published": "The date when the news was published (YYYY-MM-DD format)",
    "source_url": "%s",
    "description": "A brief description of the project and contract"
}

IMPORTANT:
- Only extract news about contract wins, not general industry news
- Focus on projects that would require steel in their execution
- Consider ALL types of construction, infrastructure, and manufacturing projects as potential steel consumers
- When in doubt about steel requirements, include the contract rather than exclude it
- If you can't find all the information, provide as much as you can
- Format dates as YYYY-MM-DD
- Return the data as a JSON array of objects, even if there's only one item
- If no relevant news is found, return an empty array []

Here's the content to extract from:

%s`

const duplicatePromptTemplate = `You are a news deduplication system. Your task is to check if a news headline is semantically similar
to any headlines in our database of previously sent news.

Here are the previously sent headlines:
%s

New headline to check:
"%s"

Answer with EXACTLY ONE WORD: either "DUPLICATE" if this headline is semantically equivalent
to any in the list (meaning it refers to the same news event, even if worded differently)
or "UNIQUE" if it represents news we haven't seen before.`

const qualifyPromptTemplate = `You are a Steel Sales Lead Qualification System for a steel manufacturing company. Your task is to:
1. Identify the industry and sub-category of the project
2. Determine if the news article about a contract award or project is worth sending to our sales team for potential steel sales

You need to evaluate this news to determine:
1. Whether the project would require significant steel materials
2. Whether we could potentially sell steel to the company mentioned in the news (not to the government)
3. The specific potential steel requirements (types, quantities if mentioned)
4. The urgency/timeline of the opportunity

### ALLOWED TAGS:
%s

News article details:
Title: %s
Company: %s
Project Type: %s
Location: %s
Contract Value: %s
Date: %s
Description: %s

Here are important criteria:
- First identify the industry and sub-category from the options above
- Government entities are **not** direct targets for steel sales
- Small-scale IT or service contracts typically don't require significant steel
- Construction, infrastructure, manufacturing, energy projects often need substantial steel
- The contract value should be significant enough to indicate large material requirements
- We want to focus on opportunities where the company (not the government) would be purchasing steel

Provide your analysis in the following JSON format only:
{
    "qualified": true/false,
    "tag": "Industry-SubCategory",
    "steel_requirements": "Detailed description of likely steel requirements",
    "potential_value": "Estimated percentage of the contract value that might be spent on steel",
    "target_company": "The specific company that would potentially purchase the steel",
    "urgency": "high/medium/low",
    "reasoning": "Your detailed reasoning including industry classification justification"
}

Response MUST be valid JSON.`

// extractionLookback bounds how old extracted articles may be.
const extractionLookback = 30 * 24 * time.Hour

type extractedItem struct {
	Title         string `json:"title"`
	Company       string `json:"company"`
	ProjectType   string `json:"project_type"`
	Location      string `json:"location"`
	ContractValue string `json:"contract_value"`
	DatePublished string `json:"date_published"`
	SourceURL     string `json:"source_url"`
	Description   string `json:"description"`
}

// ExtractNews asks a model to pull structured contract-win items out of a
// page's markdown rendition.
func (c *Client) ExtractNews(ctx context.Context, markdown, sourceURL string) ([]model.ContractNews, error) {
	end := time.Now()
	start := end.Add(-extractionLookback)
	dateRange := fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))

	prompt := fmt.Sprintf(extractPromptTemplate, dateRange, sourceURL, markdown)
	response, err := c.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	raw, ok := sliceJSONArray(response)
	if !ok {
		return nil, fmt.Errorf("no JSON array in extraction response")
	}

	var items []extractedItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}

	news := make([]model.ContractNews, 0, len(items))
	for _, item := range items {
		if item.Title == "" || item.Company == "" {
			continue
		}
		if item.ContractValue == "" {
			item.ContractValue = "N/A"
		}
		if item.SourceURL == "" {
			item.SourceURL = sourceURL
		}
		news = append(news, model.ContractNews{
			Title:         item.Title,
			Company:       item.Company,
			ProjectType:   item.ProjectType,
			Location:      item.Location,
			ContractValue: item.ContractValue,
			DatePublished: item.DatePublished,
			SourceURL:     item.SourceURL,
			Description:   item.Description,
		})
	}
	return news, nil
}

// IsDuplicateHeadline checks a headline against recently alerted ones for
// semantic equivalence.
func (c *Client) IsDuplicateHeadline(ctx context.Context, headline string, recent []string) (bool, error) {
	known, err := json.MarshalIndent(recent, "", "  ")
	if err != nil {
		return false, err
	}

	prompt := fmt.Sprintf(duplicatePromptTemplate, string(known), headline)
	response, err := c.Complete(ctx, prompt)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToUpper(response), "DUPLICATE"), nil
}

// Qualify scores a news item for steel-sales potential. A response that
// cannot be parsed yields an unqualified verdict rather than an error, so one
// malformed completion does not abort a run.
func (c *Client) Qualify(ctx context.Context, news model.ContractNews) (model.Qualification, error) {
	prompt := fmt.Sprintf(qualifyPromptTemplate,
		"- `"+strings.Join(model.AllowedTags, "`\n- `")+"`",
		news.Title, news.Company, news.ProjectType, news.Location,
		news.ContractValue, news.DatePublished, news.Description,
	)

	response, err := c.Complete(ctx, prompt)
	if err != nil {
		return model.Qualification{}, err
	}

	raw, ok := sliceJSONObject(response)
	if !ok {
		return model.Qualification{Reasoning: "Failed to parse model response"}, nil
	}

	var q model.Qualification
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return model.Qualification{Reasoning: fmt.Sprintf("Failed to parse model response: %v", err)}, nil
	}
	q.Urgency = strings.ToLower(strings.TrimSpace(q.Urgency))
	return q, nil
}
