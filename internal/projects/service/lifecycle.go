package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/modelify-app/modelify-backend/internal/projects/domain"
	"github.com/modelify-app/modelify-backend/internal/projects/repository"
	usersdomain "github.com/modelify-app/modelify-backend/internal/users/domain"
)

// MaxActiveProjects caps concurrently active (non-"terminé") projects per user.
const MaxActiveProjects = 2

// MaxQuotePrice is the sanity ceiling for quotes, in euros.
const MaxQuotePrice = 100000.0

// RoleLookup resolves persisted roles for authorization decisions.
type RoleLookup interface {
	RequireAdmin(ctx context.Context, userID string) error
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Biller is the slice of the payment orchestrator the lifecycle needs.
type Biller interface {
	EnsureCustomer(ctx context.Context, userID string) (string, error)
	IssueQuote(ctx context.Context, customerID string, amount float64, label string) (string, error)
	StartCheckout(ctx context.Context, customerID string, amount float64, label, projectID string) (string, error)
}

// Lifecycle owns the project status state machine and decides who may trigger
// which transition.
type Lifecycle struct {
	projects *repository.ProjectRepository
	files    *repository.FileRepository
	intake   *Intake
	roles    RoleLookup
	biller   Biller
}

func NewLifecycle(
	projects *repository.ProjectRepository,
	files *repository.FileRepository,
	intake *Intake,
	roles RoleLookup,
	biller Biller,
) *Lifecycle {
	return &Lifecycle{
		projects: projects,
		files:    files,
		intake:   intake,
		roles:    roles,
		biller:   biller,
	}
}

// CreateInput carries the validated form fields of a new project request.
type CreateInput struct {
	Title                 string
	DescriptionClient     string
	Use                   string
	Format                string
	NbElements            string
	DimensionLength       *float64
	DimensionWidth        *float64
	DimensionHeight       *float64
	DimensionNoConstraint bool
	DetailLevel           string
	DeadlineType          string
	DeadlineDate          string
	Budget                string
}

// Create submits a new project request. The quota guard runs before any side
// effect: if the owner is at the cap, nothing is inserted and nothing is
// uploaded. Attachment failures never fail the creation itself.
func (s *Lifecycle) Create(ctx context.Context, ownerID string, in CreateInput, uploads []UploadedFile) (*domain.Project, []RejectedFile, error) {
	active, err := s.projects.CountActive(ctx, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("count active projects: %w", err)
	}
	if active >= MaxActiveProjects {
		return nil, nil, domain.ErrQuotaExceeded
	}

	if in.NbElements == "" {
		in.NbElements = "unique"
	}
	if in.DetailLevel == "" {
		in.DetailLevel = "standard"
	}

	p := &domain.Project{
		UserID:                ownerID,
		Title:                 domain.SanitizeTitle(in.Title),
		DescriptionClient:     domain.SanitizeDescription(in.DescriptionClient),
		Use:                   in.Use,
		Format:                in.Format,
		NbElements:            in.NbElements,
		DimensionLength:       in.DimensionLength,
		DimensionWidth:        in.DimensionWidth,
		DimensionHeight:       in.DimensionHeight,
		DimensionNoConstraint: in.DimensionNoConstraint,
		DetailLevel:           in.DetailLevel,
		DeadlineType:          in.DeadlineType,
		DeadlineDate:          in.DeadlineDate,
		Budget:                in.Budget,
		Status:                domain.StatusPending,
	}

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, nil, fmt.Errorf("insert project: %w", err)
	}

	_, rejected := s.intake.Ingest(ctx, p.ID, uploads)

	return p, rejected, nil
}

// Get returns a project with its attachments. Only the owner and admins may
// read it.
func (s *Lifecycle) Get(ctx context.Context, callerID, id string) (*domain.Project, []domain.ProjectFile, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if p.UserID != callerID {
		admin, err := s.roles.IsAdmin(ctx, callerID)
		if err != nil {
			return nil, nil, err
		}
		if !admin {
			return nil, nil, usersdomain.ErrForbidden
		}
	}

	files, err := s.files.ListByProject(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return p, files, nil
}

// List pages projects: admins see everything (optionally filtered to one
// user), everyone else sees only their own.
func (s *Lifecycle) List(ctx context.Context, callerID string, page, limit int, filterUser string) ([]domain.Project, int, error) {
	admin, err := s.roles.IsAdmin(ctx, callerID)
	if err != nil {
		return nil, 0, err
	}

	owner := callerID
	if admin {
		owner = filterUser
	}
	return s.projects.List(ctx, owner, page, limit)
}

// Update applies an owner field edit. Non-owners are rejected outright;
// owners may only edit while the project is still "en attente".
func (s *Lifecycle) Update(ctx context.Context, callerID, id string, upd domain.UpdateProjectRequest) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.UserID != callerID {
		return nil, usersdomain.ErrForbidden
	}
	if !p.Editable() {
		return nil, domain.ErrInvalidState
	}

	if upd.Title != nil {
		clean := domain.SanitizeTitle(*upd.Title)
		upd.Title = &clean
	}
	if upd.DescriptionClient != nil {
		clean := domain.SanitizeDescription(*upd.DescriptionClient)
		upd.DescriptionClient = &clean
	}

	return s.projects.UpdateFields(ctx, id, upd)
}

// SetStatus is the admin escape hatch: any defined status from any state.
func (s *Lifecycle) SetStatus(ctx context.Context, callerID, id, status string) (*domain.Project, error) {
	if err := s.roles.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.projects.UpdateStatus(ctx, id, status)
}

// Quote prices a pending project: the admin's price is validated, a quote is
// issued against the owner's billing customer, and price + quote id are
// stored together as the project moves to "devis_envoyé".
func (s *Lifecycle) Quote(ctx context.Context, callerID, id string, price float64) (*domain.Project, error) {
	if err := s.roles.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	price, err := ValidateQuotePrice(price)
	if err != nil {
		return nil, err
	}

	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.StatusPending {
		return nil, domain.ErrInvalidState
	}

	customerID, err := s.biller.EnsureCustomer(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("ensure billing customer: %w", err)
	}

	quoteID, err := s.biller.IssueQuote(ctx, customerID, price, p.Title)
	if err != nil {
		return nil, fmt.Errorf("issue quote: %w", err)
	}

	return s.projects.SetQuote(ctx, id, price, quoteID)
}

// Pay lets the owner start checkout on a quoted project and moves it to
// "paiement_attente".
func (s *Lifecycle) Pay(ctx context.Context, callerID, id string) (*domain.Project, string, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if p.UserID != callerID {
		return nil, "", usersdomain.ErrForbidden
	}
	if p.Status != domain.StatusQuoted || p.Price == nil {
		return nil, "", domain.ErrInvalidState
	}

	customerID, err := s.biller.EnsureCustomer(ctx, callerID)
	if err != nil {
		return nil, "", fmt.Errorf("ensure billing customer: %w", err)
	}

	url, err := s.biller.StartCheckout(ctx, customerID, *p.Price, p.Title, p.ID)
	if err != nil {
		return nil, "", fmt.Errorf("start checkout: %w", err)
	}

	updated, err := s.projects.UpdateStatus(ctx, id, domain.StatusPaymentPending)
	if err != nil {
		return nil, "", err
	}
	return updated, url, nil
}

// MarkPaid reconciles a payment confirmation into the lifecycle. Duplicate
// deliveries are no-ops: a project that is already "payé" stays untouched.
func (s *Lifecycle) MarkPaid(ctx context.Context, projectID, paymentRef string) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if p.Status == domain.StatusPaid {
		return nil
	}

	applied, err := s.projects.MarkPaid(ctx, projectID, paymentRef)
	if err != nil {
		return err
	}
	if applied {
		log.Printf("projects: %s marked paid (ref %s)", projectID, paymentRef)
	}
	return nil
}

// ReleaseStaleCheckouts reverts projects whose checkout session was abandoned
// so their owners can retry.
func (s *Lifecycle) ReleaseStaleCheckouts(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.projects.ReleaseStale(ctx, maxAge)
}

// ValidateQuotePrice bounds a quote to (0, 100000] euros and rounds it to
// cents.
func ValidateQuotePrice(price float64) (float64, error) {
	if price <= 0 || price > MaxQuotePrice {
		return 0, domain.ErrInvalidPrice
	}
	return math.Round(price*100) / 100, nil
}
