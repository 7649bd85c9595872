package publication_repository_postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"rollup-blog-service/internal/domain/custom_errors"
	model "rollup-blog-service/internal/domain/models"
	ports "rollup-blog-service/internal/domain/ports/output"
	"rollup-blog-service/internal/infrastructure/outbound/repository/postgres/db"
)

const publicationColumns = "id, post_id, title, content_ref, tx_hash, operation, status, error, created_at, updated_at"

type PublicationRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewPublicationRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *PublicationRepository {
	return &PublicationRepository{db: db, log: log, metrics: metrics}
}

func (r *PublicationRepository) Create(ctx context.Context, publication *model.Publication) (*model.Publication, error) {
	start := time.Now()
	r.log.Debug("Creating publication",
		slog.String("operation", string(publication.Operation)),
		slog.String("content_ref", publication.ContentRef))

	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}
	args := pgx.NamedArgs{
		"post_id":     nullableText(publication.PostID),
		"title":       publication.Title,
		"content_ref": publication.ContentRef,
		"tx_hash":     nullableText(publication.TxHash),
		"operation":   string(publication.Operation),
		"status":      string(publication.Status),
		"error":       nullableText(publication.Error),
		"created_at":  now,
		"updated_at":  now,
	}

	query := `
		INSERT INTO publications (post_id, title, content_ref, tx_hash, operation, status, error, created_at, updated_at)
		VALUES (@post_id, @title, @content_ref, @tx_hash, @operation, @status, @error, @created_at, @updated_at)
		RETURNING ` + publicationColumns

	created, err := scanPublication(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.recordQuery("publication_create", false, start)
		r.log.Error("Error creating publication", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.recordQuery("publication_create", true, start)
	r.log.Debug("Successfully created publication", slog.Int64("id", created.ID))
	return created, nil
}

func (r *PublicationRepository) UpdateStatus(ctx context.Context, id int64, update *model.PublicationStatusUpdate) (*model.Publication, error) {
	start := time.Now()
	r.log.Debug("Updating publication status", slog.Int64("id", id), slog.String("status", string(update.Status)))

	setClauses := []string{"status = @status", "updated_at = @updated_at"}
	args := pgx.NamedArgs{
		"id":         id,
		"status":     string(update.Status),
		"updated_at": pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	if update.TxHash != nil {
		setClauses = append(setClauses, "tx_hash = @tx_hash")
		args["tx_hash"] = *update.TxHash
	}
	if update.Error != nil {
		setClauses = append(setClauses, "error = @error")
		args["error"] = *update.Error
	}

	query := "UPDATE publications SET " + strings.Join(setClauses, ", ") + " WHERE id = @id RETURNING " + publicationColumns

	updated, err := scanPublication(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.recordQuery("publication_update_status", false, start)
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Debug("Publication not found for update", slog.Int64("id", id))
			return nil, custom_errors.ErrPublicationNotFound
		}
		r.log.Error("Error updating publication status", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.recordQuery("publication_update_status", true, start)
	return updated, nil
}

func (r *PublicationRepository) GetByID(ctx context.Context, id int64) (*model.Publication, error) {
	start := time.Now()

	query := "SELECT " + publicationColumns + " FROM publications WHERE id = @id"
	publication, err := scanPublication(r.db.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	if err != nil {
		r.recordQuery("publication_get_by_id", false, start)
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Debug("Publication not found by id", slog.Int64("id", id))
			return nil, custom_errors.ErrPublicationNotFound
		}
		r.log.Error("Error getting publication by id", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.recordQuery("publication_get_by_id", true, start)
	return publication, nil
}

func (r *PublicationRepository) List(ctx context.Context, filters model.PublicationFilters) ([]*model.Publication, int, error) {
	start := time.Now()
	r.log.Debug("Listing publications", slog.Any("filters", filters))

	whereClauses := []string{}
	args := pgx.NamedArgs{}

	if filters.Status != nil {
		whereClauses = append(whereClauses, "status = @status")
		args["status"] = string(*filters.Status)
	}
	if filters.OrphanedOnly {
		whereClauses = append(whereClauses, "status NOT IN (@confirmed, @submitted)")
		args["confirmed"] = string(model.PublicationStatusConfirmed)
		args["submitted"] = string(model.PublicationStatusSubmitted)
	}

	where := ""
	if len(whereClauses) > 0 {
		where = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM publications"+where, args).Scan(&total); err != nil {
		r.recordQuery("publication_list", false, start)
		r.log.Error("Error counting publications", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	query := "SELECT " + publicationColumns + " FROM publications" + where + " ORDER BY created_at DESC, id DESC"
	if filters.Limit != nil {
		query += " LIMIT @limit"
		args["limit"] = *filters.Limit
	}
	if filters.Offset != nil {
		query += " OFFSET @offset"
		args["offset"] = *filters.Offset
	}

	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		r.recordQuery("publication_list", false, start)
		r.log.Error("Error listing publications", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	publications := make([]*model.Publication, 0)
	for rows.Next() {
		publication, err := scanPublication(rows)
		if err != nil {
			r.recordQuery("publication_list", false, start)
			r.log.Error("Error scanning publication during List", slog.String("error", err.Error()))
			return nil, 0, custom_errors.ErrDatabaseQuery
		}
		publications = append(publications, publication)
	}
	if err := rows.Err(); err != nil {
		r.recordQuery("publication_list", false, start)
		r.log.Error("Error iterating rows during List", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	r.recordQuery("publication_list", true, start)
	r.log.Debug("Successfully listed publications", slog.Int("count", len(publications)), slog.Int("total", total))
	return publications, total, nil
}

func (r *PublicationRepository) recordQuery(queryType string, success bool, start time.Time) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func scanPublication(row pgx.Row) (*model.Publication, error) {
	var (
		p         model.Publication
		postID    pgtype.Text
		txHash    pgtype.Text
		errText   pgtype.Text
		operation string
		status    string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&p.ID,
		&postID,
		&p.Title,
		&p.ContentRef,
		&txHash,
		&operation,
		&status,
		&errText,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan publication: %w", err)
	}
	p.PostID = postID.String
	p.TxHash = txHash.String
	p.Error = errText.String
	p.Operation = model.PublicationOperation(operation)
	p.Status = model.PublicationStatus(status)
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	return &p, nil
}

func nullableText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
