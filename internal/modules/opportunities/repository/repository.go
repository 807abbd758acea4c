package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gaborage/go-bricks/database"
	"github.com/gaborage/total-search/internal/modules/opportunities/domain"
)

var (
	ErrReportNotFound = errors.New("opportunity report not found")
)

// Repository stores generated opportunity reports.
type Repository interface {
	Save(ctx context.Context, report *domain.OpportunityReport) error
	GetByID(ctx context.Context, id string) (*domain.OpportunityReport, error)
	List(ctx context.Context, limit int) ([]*domain.ReportSummary, error)
}

const (
	dbUnavailableErrMsg = "failed to get database connection: %w"
	reportsTable        = "opportunity_reports"
)

type ReportRepository struct {
	getDB func(context.Context) (database.Interface, error)
}

func NewSQLReportRepository(getDB func(context.Context) (database.Interface, error)) *ReportRepository {
	return &ReportRepository{
		getDB: getDB,
	}
}

// Save inserts the report with its full JSON payload.
func (r *ReportRepository) Save(ctx context.Context, report *domain.OpportunityReport) error {
	db, err := r.getDB(ctx)
	if err != nil {
		return fmt.Errorf(dbUnavailableErrMsg, err)
	}

	entity, err := domain.ToReportEntity(report)
	if err != nil {
		return err
	}

	qb := database.NewQueryBuilder(database.PostgreSQL)
	query, args, err := qb.Insert(entity.TableName()).
		Columns("id", "seed_keyword", "analyzed_at", "total_keywords", "gap_count", "payload").
		Values(entity.ID, entity.SeedKeyword, entity.AnalyzedAt, entity.TotalKeywords, entity.GapCount, entity.Payload).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	return nil
}

// GetByID loads a stored report and decodes its payload.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*domain.OpportunityReport, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, fmt.Errorf(dbUnavailableErrMsg, err)
	}

	qb := database.NewQueryBuilder(database.PostgreSQL)
	query, args, err := qb.Select("id", "seed_keyword", "analyzed_at", "total_keywords", "gap_count", "payload").
		From(reportsTable).
		Where(qb.Filter().Eq("id", id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var entity domain.ReportEntity
	err = db.QueryRow(ctx, query, args...).Scan(
		&entity.ID,
		&entity.SeedKeyword,
		&entity.AnalyzedAt,
		&entity.TotalKeywords,
		&entity.GapCount,
		&entity.Payload,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}

	return domain.ToReport(&entity)
}

// List returns the newest reports first, without payloads.
func (r *ReportRepository) List(ctx context.Context, limit int) ([]*domain.ReportSummary, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, fmt.Errorf(dbUnavailableErrMsg, err)
	}

	qb := database.NewQueryBuilder(database.PostgreSQL)
	query, args, err := qb.Select("id", "seed_keyword", "analyzed_at", "total_keywords", "gap_count").
		From(reportsTable).
		OrderBy("analyzed_at DESC").
		Limit(uint64(limit)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	summaries := []*domain.ReportSummary{}
	for rows.Next() {
		var entity domain.ReportEntity
		if err := rows.Scan(
			&entity.ID,
			&entity.SeedKeyword,
			&entity.AnalyzedAt,
			&entity.TotalKeywords,
			&entity.GapCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		summaries = append(summaries, domain.ToReportSummary(&entity))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return summaries, nil
}
