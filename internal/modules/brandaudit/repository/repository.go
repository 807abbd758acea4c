// Package repository stores coverage reports in the named "analytics"
// database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gaborage/go-bricks/database"

	"github.com/gaborage/total-search/internal/modules/brandaudit/domain"
)

var ErrCoverageReportNotFound = errors.New("coverage report not found")

const (
	dbUnavailableErrMsg = "failed to get analytics database connection: %w"
	reportsTable        = "coverage_reports"
)

type Repository interface {
	Save(ctx context.Context, report *domain.CoverageReport) error
	GetByID(ctx context.Context, id string) (*domain.CoverageReport, error)
	ListByDomain(ctx context.Context, brandDomain string, limit int) ([]*domain.CoverageReportSummary, error)
	Stats(ctx context.Context, brandDomain string) (*domain.BrandStats, error)
}

// CoverageRepository reads and writes coverage reports. getDB is wired to
// deps.DBByName(ctx, "analytics") by the module.
type CoverageRepository struct {
	getDB func(context.Context) (database.Interface, error)
	now   func() time.Time
}

func NewCoverageRepository(getDB func(context.Context) (database.Interface, error)) *CoverageRepository {
	return &CoverageRepository{
		getDB: getDB,
		now:   time.Now,
	}
}

func (r *CoverageRepository) Save(ctx context.Context, report *domain.CoverageReport) error {
	db, err := r.getDB(ctx)
	if err != nil {
		return fmt.Errorf(dbUnavailableErrMsg, err)
	}

	entity, err := domain.ToCoverageReportEntity(report)
	if err != nil {
		return err
	}

	qb := database.NewQueryBuilder(database.PostgreSQL)
	query, args, err := qb.Insert(entity.TableName()).
		Columns("id", "brand_domain", "generated_at", "total_keywords", "keywords_with_gaps", "average_gap_score", "payload").
		Values(entity.ID, entity.BrandDomain, entity.GeneratedAt, entity.TotalKeywords, entity.KeywordsWithGaps, entity.AverageGapScore, entity.Payload).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert coverage report: %w", err)
	}
	return nil
}

func (r *CoverageRepository) GetByID(ctx context.Context, id string) (*domain.CoverageReport, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, fmt.Errorf(dbUnavailableErrMsg, err)
	}

	qb := database.NewQueryBuilder(database.PostgreSQL)
	query, args, err := qb.Select("id", "brand_domain", "generated_at", "total_keywords", "keywords_with_gaps", "average_gap_score", "payload").
		From(reportsTable).
		Where(qb.Filter().Eq("id", id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var e domain.CoverageReportEntity
	err = db.QueryRow(ctx, query, args...).Scan(
		&e.ID,
		&e.BrandDomain,
		&e.GeneratedAt,
		&e.TotalKeywords,
		&e.KeywordsWithGaps,
		&e.AverageGapScore,
		&e.Payload,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCoverageReportNotFound
		}
		return nil, fmt.Errorf("failed to scan coverage report: %w", err)
	}

	return domain.ToCoverageReport(&e)
}

// ListByDomain returns a brand's reports, newest first, without payloads.
func (r *CoverageRepository) ListByDomain(ctx context.Context, brandDomain string, limit int) ([]*domain.CoverageReportSummary, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, fmt.Errorf(dbUnavailableErrMsg, err)
	}

	qb := database.NewQueryBuilder(database.PostgreSQL)
	query, args, err := qb.Select("id", "brand_domain", "generated_at", "total_keywords", "keywords_with_gaps", "average_gap_score").
		From(reportsTable).
		Where(qb.Filter().Eq("brand_domain", brandDomain)).
		OrderBy("generated_at DESC").
		Limit(uint64(limit)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query coverage reports: %w", err)
	}
	defer rows.Close()

	summaries := []*domain.CoverageReportSummary{}
	for rows.Next() {
		var e domain.CoverageReportEntity
		if err := rows.Scan(
			&e.ID,
			&e.BrandDomain,
			&e.GeneratedAt,
			&e.TotalKeywords,
			&e.KeywordsWithGaps,
			&e.AverageGapScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan coverage report: %w", err)
		}
		summaries = append(summaries, domain.ToCoverageReportSummary(&e))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coverage reports: %w", err)
	}
	return summaries, nil
}

// Stats aggregates every stored report of a brand. A brand without reports
// has zero counts and a nil LastGeneratedAt.
func (r *CoverageRepository) Stats(ctx context.Context, brandDomain string) (*domain.BrandStats, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, fmt.Errorf(dbUnavailableErrMsg, err)
	}

	weekAgo := r.now().UTC().AddDate(0, 0, -7)

	// Raw SQL for the FILTER aggregate.
	query := `
		SELECT
			COUNT(*) as total_reports,
			COUNT(*) FILTER (WHERE generated_at >= $2) as reports_this_week,
			AVG(average_gap_score) as average_gap_score,
			MAX(generated_at) as last_generated_at
		FROM coverage_reports
		WHERE brand_domain = $1
	`

	var (
		stats   domain.BrandStats
		avgGap  *float64
		lastGen *time.Time
	)
	err = db.QueryRow(ctx, query, brandDomain, weekAgo).
		Scan(&stats.TotalReports, &stats.ReportsThisWeek, &avgGap, &lastGen)
	if err != nil {
		return nil, fmt.Errorf("failed to query brand stats: %w", err)
	}

	stats.BrandDomain = brandDomain
	if avgGap != nil {
		stats.AverageGapScore = *avgGap
	}
	stats.LastGeneratedAt = lastGen
	return &stats, nil
}
