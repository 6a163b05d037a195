package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"steelleads-go/internal/model"
)

const leadColumns = `id, title, company, project_type, location, contract_value,
	date_published, source_url, tag, steel_requirements, potential_value,
	target_company, urgency, reasoning, created_at`

type LeadRepository struct {
	pool *pgxpool.Pool
}

func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

func (r *LeadRepository) CreateIfNotExists(ctx context.Context, input model.LeadCreate) (model.Lead, bool, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			title, company, project_type, location, contract_value,
			date_published, source_url, tag, steel_requirements,
			potential_value, target_company, urgency, reasoning
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (title) DO NOTHING
		RETURNING `+leadColumns,
		input.Title, input.Company, input.ProjectType, input.Location,
		input.ContractValue, input.DatePublished, input.SourceURL, input.Tag,
		input.SteelRequirements, input.PotentialValue, input.TargetCompany,
		input.Urgency, input.Reasoning,
	)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Lead{}, false, nil
	}
	if err != nil {
		return model.Lead{}, false, err
	}
	return lead, true, nil
}

func (r *LeadRepository) List(ctx context.Context) ([]model.Lead, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []model.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func scanLead(row pgx.Row) (model.Lead, error) {
	var lead model.Lead
	err := row.Scan(
		&lead.ID, &lead.Title, &lead.Company, &lead.ProjectType, &lead.Location,
		&lead.ContractValue, &lead.DatePublished, &lead.SourceURL, &lead.Tag,
		&lead.SteelRequirements, &lead.PotentialValue, &lead.TargetCompany,
		&lead.Urgency, &lead.Reasoning, &lead.CreatedAt,
	)
	return lead, err
}
