package domain

import (
	"strings"
	"time"
)

// Project is a 3D-modelling request submitted by a client. Status is the only
// field driving workflow eligibility; price and the billing ids are written
// exclusively by admin quoting and payment reconciliation.
type Project struct {
	ID                    string   `json:"id"`
	UserID                string   `json:"userId"`
	Title                 string   `json:"title"`
	DescriptionClient     string   `json:"descriptionClient"`
	Use                   string   `json:"use"`
	Format                string   `json:"format,omitempty"`
	NbElements            string   `json:"nbElements"`
	DimensionLength       *float64 `json:"dimensionLength,omitempty"`
	DimensionWidth        *float64 `json:"dimensionWidth,omitempty"`
	DimensionHeight       *float64 `json:"dimensionHeight,omitempty"`
	DimensionNoConstraint bool     `json:"dimensionNoConstraint"`
	DetailLevel           string   `json:"detailLevel"`
	DeadlineType          string   `json:"deadlineType,omitempty"`
	DeadlineDate          string   `json:"deadlineDate,omitempty"`
	Budget                string   `json:"budget,omitempty"`
	Status                string   `json:"status"`
	Price                 *float64 `json:"price,omitempty"`
	StripeQuoteID         *string  `json:"stripe_quote_id,omitempty"`
	StripeInvoiceID       *string  `json:"stripe_invoice_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// File types derived from the resolved MIME type during intake.
const (
	FileTypeImage    = "image"
	FileTypeDocument = "document"
)

// ProjectFile is one accepted attachment. Immutable after intake.
type ProjectFile struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	FileURL   string    `json:"file_url"`
	FileType  string    `json:"file_type"`
	CreatedAt time.Time `json:"created_at"`
}

// FileTypeForMime maps a resolved MIME type onto the stored file type.
func FileTypeForMime(mime string) string {
	if strings.HasPrefix(mime, "image/") {
		return FileTypeImage
	}
	return FileTypeDocument
}

// UpdateProjectRequest carries a partial field edit; nil means "unchanged".
type UpdateProjectRequest struct {
	Title                 *string
	DescriptionClient     *string
	Use                   *string
	Format                *string
	NbElements            *string
	DimensionLength       *float64
	DimensionWidth        *float64
	DimensionHeight       *float64
	DimensionNoConstraint *bool
	DetailLevel           *string
	DeadlineType          *string
	DeadlineDate          *string
	Budget                *string
}

// SanitizeTitle escapes angle brackets so a stored title can never smuggle
// markup into a rendering frontend.
func SanitizeTitle(v string) string {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, "<", "&lt;")
	v = strings.ReplaceAll(v, ">", "&gt;")
	return v
}

// SanitizeDescription neutralizes script tags while leaving the rest of the
// free text untouched.
func SanitizeDescription(v string) string {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, "<script", "&lt;script")
	v = strings.ReplaceAll(v, "</script>", "&lt;/script&gt;")
	return v
}
