package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finzo/backend/internal/contracts"
)

// Repository handles persistence of recommendation bundles, market
// snapshots, and SIP plan templates.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Pool returns the underlying database pool
func (r *Repository) Pool() *pgxpool.Pool {
	return r.db
}

// EnsureSchema creates the tables when they do not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS recommendation_bundles (
			id BIGSERIAL PRIMARY KEY,
			profile_hash TEXT NOT NULL UNIQUE,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS market_snapshots (
			id BIGSERIAL PRIMARY KEY,
			taken_at TIMESTAMPTZ NOT NULL,
			symbol_count INT NOT NULL,
			payload JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_market_snapshots_taken_at
			ON market_snapshots (taken_at DESC)`,
		`CREATE TABLE IF NOT EXISTS sip_plans (
			name TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			risk_level TEXT NOT NULL,
			min_investment DOUBLE PRECISION,
			recommended_duration TEXT,
			expected_returns DOUBLE PRECISION,
			tax_benefits TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			suitable_for TEXT NOT NULL DEFAULT ''
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// ProfileHash builds the stable lookup key for a canonical profile.
func ProfileHash(p contracts.Profile) string {
	payload, _ := json.Marshal(p)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// SaveBundle stores the latest bundle for a profile, replacing any
// previous one with the same profile hash.
func (r *Repository) SaveBundle(ctx context.Context, bundle *contracts.RecommendationBundle) error {
	payload, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	query := `
		INSERT INTO recommendation_bundles (profile_hash, payload, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (profile_hash) DO UPDATE SET
			payload = EXCLUDED.payload,
			created_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, ProfileHash(bundle.Profile), payload); err != nil {
		return fmt.Errorf("insert bundle: %w", err)
	}
	return nil
}

// LatestBundle loads the stored bundle for a profile, or nil when none
// has been saved.
func (r *Repository) LatestBundle(ctx context.Context, p contracts.Profile) (*contracts.RecommendationBundle, error) {
	query := `SELECT payload FROM recommendation_bundles WHERE profile_hash = $1`

	var payload []byte
	err := r.db.QueryRow(ctx, query, ProfileHash(p)).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query bundle: %w", err)
	}

	var bundle contracts.RecommendationBundle
	if err := json.Unmarshal(payload, &bundle); err != nil {
		return nil, fmt.Errorf("unmarshal bundle: %w", err)
	}
	return &bundle, nil
}

// SaveSnapshot appends a market snapshot.
func (r *Repository) SaveSnapshot(ctx context.Context, snapshot *contracts.MarketSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	query := `INSERT INTO market_snapshots (taken_at, symbol_count, payload) VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(ctx, query, snapshot.TakenAt, snapshot.SymbolCount(), payload); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot loads the most recent persisted snapshot, or
// ErrDataUnavailable when there is none.
func (r *Repository) LatestSnapshot(ctx context.Context) (*contracts.MarketSnapshot, error) {
	query := `SELECT payload FROM market_snapshots ORDER BY taken_at DESC LIMIT 1`

	var payload []byte
	err := r.db.QueryRow(ctx, query).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrDataUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	var snapshot contracts.MarketSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// PruneSnapshots deletes snapshots older than the retention window.
func (r *Repository) PruneSnapshots(ctx context.Context, retention time.Duration) (int64, error) {
	query := `DELETE FROM market_snapshots WHERE taken_at < $1`
	tag, err := r.db.Exec(ctx, query, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SIPPlans returns the stored plan templates, seeding the built-in
// defaults first when the table is empty.
func (r *Repository) SIPPlans(ctx context.Context) (map[string]contracts.SIPPlan, error) {
	plans, err := r.loadSIPPlans(ctx)
	if err != nil {
		return nil, err
	}
	if len(plans) > 0 {
		return plans, nil
	}

	if err := r.SeedSIPPlans(ctx, contracts.DefaultSIPPlans()); err != nil {
		return nil, err
	}
	return r.loadSIPPlans(ctx)
}

func (r *Repository) loadSIPPlans(ctx context.Context) (map[string]contracts.SIPPlan, error) {
	query := `
		SELECT name, category, risk_level, min_investment, recommended_duration,
		       expected_returns, tax_benefits, description, suitable_for
		FROM sip_plans
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sip plans: %w", err)
	}
	defer rows.Close()

	plans := make(map[string]contracts.SIPPlan)
	for rows.Next() {
		var (
			plan          contracts.SIPPlan
			minInvestment *float64
			duration      *string
			returns       *float64
		)
		err := rows.Scan(
			&plan.Name, &plan.Category, &plan.RiskLevel, &minInvestment,
			&duration, &returns, &plan.TaxBenefits, &plan.Description, &plan.SuitableFor,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sip plan: %w", err)
		}

		if minInvestment != nil {
			plan.MinInvestment = contracts.Float(*minInvestment)
		}
		if returns != nil {
			plan.ExpectedReturns = contracts.Float(*returns)
		}
		if duration != nil {
			plan.RecommendedDuration = durationField(*duration)
		}

		plans[plan.Name] = plan
	}
	return plans, rows.Err()
}

// SeedSIPPlans inserts plan templates, leaving existing rows untouched.
func (r *Repository) SeedSIPPlans(ctx context.Context, plans map[string]contracts.SIPPlan) error {
	query := `
		INSERT INTO sip_plans (
			name, category, risk_level, min_investment, recommended_duration,
			expected_returns, tax_benefits, description, suitable_for
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name) DO NOTHING
	`
	for _, plan := range plans {
		var minInvestment, returns *float64
		if plan.MinInvestment.Valid {
			minInvestment = &plan.MinInvestment.Value
		}
		if plan.ExpectedReturns.Valid {
			returns = &plan.ExpectedReturns.Value
		}

		_, err := r.db.Exec(ctx, query,
			plan.Name, plan.Category, plan.RiskLevel, minInvestment,
			durationText(plan.RecommendedDuration), returns,
			plan.TaxBenefits, plan.Description, plan.SuitableFor,
		)
		if err != nil {
			return fmt.Errorf("seed sip plan %s: %w", plan.Name, err)
		}
	}
	return nil
}

// durationField parses a stored duration back into its union form:
// numeric strings become numbers, ranges like "5-10 years" stay text.
func durationField(s string) contracts.FlexField {
	if s == "" {
		return contracts.FlexField{}
	}
	if years, err := strconv.ParseFloat(s, 64); err == nil {
		return contracts.FlexNumber(years)
	}
	return contracts.FlexText(s)
}

func durationText(f contracts.FlexField) string {
	if !f.Set {
		return ""
	}
	if f.IsText {
		return f.Text
	}
	return strconv.FormatFloat(f.Number, 'f', -1, 64)
}
