package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/modelify-app/modelify-backend/internal/projects/domain"
)

const projectColumns = `id, user_id, title, description_client, use_case, format,
	nb_elements, dimension_length, dimension_width, dimension_height,
	dimension_no_constraint, detail_level, deadline_type, deadline_date, budget,
	status, price, stripe_quote_id, stripe_invoice_id, created_at, updated_at`

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var format, deadlineType, deadlineDate, budget sql.NullString
	var stripeQuoteID, stripeInvoiceID sql.NullString
	var price, dimLength, dimWidth, dimHeight sql.NullFloat64

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.DescriptionClient,
		&p.Use,
		&format,
		&p.NbElements,
		&dimLength,
		&dimWidth,
		&dimHeight,
		&p.DimensionNoConstraint,
		&p.DetailLevel,
		&deadlineType,
		&deadlineDate,
		&budget,
		&p.Status,
		&price,
		&stripeQuoteID,
		&stripeInvoiceID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Format = format.String
	p.DeadlineType = deadlineType.String
	p.DeadlineDate = deadlineDate.String
	p.Budget = budget.String
	if dimLength.Valid {
		p.DimensionLength = &dimLength.Float64
	}
	if dimWidth.Valid {
		p.DimensionWidth = &dimWidth.Float64
	}
	if dimHeight.Valid {
		p.DimensionHeight = &dimHeight.Float64
	}
	if price.Valid {
		p.Price = &price.Float64
	}
	if stripeQuoteID.Valid {
		p.StripeQuoteID = &stripeQuoteID.String
	}
	if stripeInvoiceID.Valid {
		p.StripeInvoiceID = &stripeInvoiceID.String
	}

	return &p, nil
}

// Create inserts a new project with status "en attente" and fills the
// generated id and timestamps.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	const q = `
INSERT INTO projects (user_id, title, description_client, use_case, format,
	nb_elements, dimension_length, dimension_width, dimension_height,
	dimension_no_constraint, detail_level, deadline_type, deadline_date, budget,
	status)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11,
	NULLIF($12, ''), NULLIF($13, ''), NULLIF($14, ''), $15)
RETURNING id, created_at, updated_at;
`
	if p.Status == "" {
		p.Status = domain.StatusPending
	}

	return r.db.QueryRowContext(ctx, q,
		p.UserID,
		p.Title,
		p.DescriptionClient,
		p.Use,
		p.Format,
		p.NbElements,
		p.DimensionLength,
		p.DimensionWidth,
		p.DimensionHeight,
		p.DimensionNoConstraint,
		p.DetailLevel,
		p.DeadlineType,
		p.DeadlineDate,
		p.Budget,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID returns a single project.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	q := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1;`, projectColumns)

	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns a page of projects, newest first. An empty ownerID lists every
// project (admin view); otherwise only the owner's.
func (r *ProjectRepository) List(ctx context.Context, ownerID string, page, limit int) ([]domain.Project, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	where := ""
	args := []interface{}{}
	if ownerID != "" {
		where = "WHERE user_id = $1"
		args = append(args, ownerID)
	}

	var total int
	countQ := fmt.Sprintf(`SELECT COUNT(*) FROM projects %s;`, where)
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf(`SELECT %s FROM projects %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`,
		projectColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, limit)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// CountActive counts the owner's projects that are not yet "terminé".
func (r *ProjectRepository) CountActive(ctx context.Context, ownerID string) (int, error) {
	const q = `SELECT COUNT(*) FROM projects WHERE user_id = $1 AND status <> $2;`

	var n int
	if err := r.db.QueryRowContext(ctx, q, ownerID, domain.StatusDone).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// UpdateFields applies a partial field edit. Ownership and editability are
// checked by the caller; this only writes.
func (r *ProjectRepository) UpdateFields(ctx context.Context, id string, upd domain.UpdateProjectRequest) (*domain.Project, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}

	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.DescriptionClient != nil {
		add("description_client", *upd.DescriptionClient)
	}
	if upd.Use != nil {
		add("use_case", *upd.Use)
	}
	if upd.Format != nil {
		add("format", *upd.Format)
	}
	if upd.NbElements != nil {
		add("nb_elements", *upd.NbElements)
	}
	if upd.DimensionLength != nil {
		add("dimension_length", *upd.DimensionLength)
	}
	if upd.DimensionWidth != nil {
		add("dimension_width", *upd.DimensionWidth)
	}
	if upd.DimensionHeight != nil {
		add("dimension_height", *upd.DimensionHeight)
	}
	if upd.DimensionNoConstraint != nil {
		add("dimension_no_constraint", *upd.DimensionNoConstraint)
	}
	if upd.DetailLevel != nil {
		add("detail_level", *upd.DetailLevel)
	}
	if upd.DeadlineType != nil {
		add("deadline_type", *upd.DeadlineType)
	}
	if upd.DeadlineDate != nil {
		add("deadline_date", *upd.DeadlineDate)
	}
	if upd.Budget != nil {
		add("budget", *upd.Budget)
	}

	q := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $1 RETURNING %s;`,
		strings.Join(sets, ", "), projectColumns)

	p, err := scanProject(r.db.QueryRowContext(ctx, q, args...))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateStatus overwrites the status. Value validation is the caller's job.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id, status string) (*domain.Project, error) {
	q := fmt.Sprintf(`
UPDATE projects SET status = $2, updated_at = NOW()
WHERE id = $1
RETURNING %s;`, projectColumns)

	p, err := scanProject(r.db.QueryRowContext(ctx, q, id, status))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SetQuote stores the price and quote reference together and moves the
// project to "devis_envoyé".
func (r *ProjectRepository) SetQuote(ctx context.Context, id string, price float64, quoteID string) (*domain.Project, error) {
	q := fmt.Sprintf(`
UPDATE projects
SET price = $2, stripe_quote_id = $3, status = $4, updated_at = NOW()
WHERE id = $1
RETURNING %s;`, projectColumns)

	p, err := scanProject(r.db.QueryRowContext(ctx, q, id, price, quoteID, domain.StatusQuoted))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MarkPaid records the payment reference and moves the project to "payé".
// The status guard makes re-application a no-op: zero rows affected means the
// project was already paid (or does not exist, which the caller has checked).
func (r *ProjectRepository) MarkPaid(ctx context.Context, id, paymentRef string) (bool, error) {
	const q = `
UPDATE projects
SET status = $2, stripe_invoice_id = $3, updated_at = NOW()
WHERE id = $1 AND status <> $2;
`
	result, err := r.db.ExecContext(ctx, q, id, domain.StatusPaid, paymentRef)
	if err != nil {
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// ReleaseStale reverts projects stuck in "paiement_attente" longer than
// maxAge back to "devis_envoyé" so their owners can retry checkout.
func (r *ProjectRepository) ReleaseStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	const q = `
UPDATE projects
SET status = $1, updated_at = NOW()
WHERE status = $2 AND updated_at < NOW() - $3::interval;
`
	interval := fmt.Sprintf("%d seconds", int64(maxAge.Seconds()))
	result, err := r.db.ExecContext(ctx, q, domain.StatusQuoted, domain.StatusPaymentPending, interval)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
