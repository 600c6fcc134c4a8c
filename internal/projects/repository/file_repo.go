package repository

import (
	"context"
	"database/sql"

	"github.com/modelify-app/modelify-backend/internal/projects/domain"
)

// FileRepository persists accepted attachment rows.
type FileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create inserts one attachment row for an accepted upload.
func (r *FileRepository) Create(ctx context.Context, f *domain.ProjectFile) error {
	const q = `
INSERT INTO project_files (project_id, file_url, file_type)
VALUES ($1, $2, $3)
RETURNING id, created_at;
`
	return r.db.QueryRowContext(ctx, q, f.ProjectID, f.FileURL, f.FileType).
		Scan(&f.ID, &f.CreatedAt)
}

// ListByProject returns a project's attachments, oldest first.
func (r *FileRepository) ListByProject(ctx context.Context, projectID string) ([]domain.ProjectFile, error) {
	const q = `
SELECT id, project_id, file_url, file_type, created_at
FROM project_files
WHERE project_id = $1
ORDER BY created_at ASC;
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ProjectFile, 0, 8)
	for rows.Next() {
		var f domain.ProjectFile
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.FileURL, &f.FileType, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
