package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/model"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetRegistrationByEmail(ctx context.Context, event, email string) (model.Registration, error) {
	var reg model.Registration
	row := s.pool.QueryRow(ctx, `
		SELECT id, seq, event, full_name, email, phone, classification, institution, city, created_at
		FROM registrations
		WHERE event = $1 AND lower(email) = lower($2)
	`, event, email)
	err := row.Scan(
		&reg.ID,
		&reg.Seq,
		&reg.Event,
		&reg.FullName,
		&reg.Email,
		&reg.Phone,
		&reg.Classification,
		&reg.Institution,
		&reg.City,
		&reg.CreatedAt,
	)
	return reg, err
}

// CreateRegistration inserts the record and returns the assigned sequence
// number, which the caller turns into the registration code.
func (s *Store) CreateRegistration(ctx context.Context, reg model.Registration) (int64, error) {
	var seq int64
	row := s.pool.QueryRow(ctx, `
		INSERT INTO registrations (id, event, full_name, email, phone, classification, institution, city, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq
	`, reg.ID, reg.Event, reg.FullName, reg.Email, reg.Phone, reg.Classification, reg.Institution, reg.City, reg.CreatedAt)
	err := row.Scan(&seq)
	return seq, err
}

// ListRegistrations returns the newest records first. An empty event lists
// every event's registrations.
func (s *Store) ListRegistrations(ctx context.Context, event string) ([]model.Registration, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, seq, event, full_name, email, phone, classification, institution, city, created_at
		FROM registrations
		WHERE $1 = '' OR event = $1
		ORDER BY created_at DESC
	`, event)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(
			&reg.ID,
			&reg.Seq,
			&reg.Event,
			&reg.FullName,
			&reg.Email,
			&reg.Phone,
			&reg.Classification,
			&reg.Institution,
			&reg.City,
			&reg.CreatedAt,
		); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (s *Store) CreateProjectUpload(ctx context.Context, upload model.ProjectUpload) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO project_uploads (id, registration_code, email, file_path, file_ext, content_type, size_bytes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, upload.ID, upload.RegistrationCode, upload.Email, upload.FilePath, upload.FileExt, upload.ContentType, upload.SizeBytes, upload.Status, upload.CreatedAt)
	return err
}

func (s *Store) GetProjectUploadByEmail(ctx context.Context, email string) (model.ProjectUpload, error) {
	var upload model.ProjectUpload
	row := s.pool.QueryRow(ctx, `
		SELECT id, registration_code, email, file_path, file_ext, content_type, size_bytes, status, created_at
		FROM project_uploads
		WHERE lower(email) = lower($1)
	`, email)
	err := row.Scan(
		&upload.ID,
		&upload.RegistrationCode,
		&upload.Email,
		&upload.FilePath,
		&upload.FileExt,
		&upload.ContentType,
		&upload.SizeBytes,
		&upload.Status,
		&upload.CreatedAt,
	)
	return upload, err
}

func (s *Store) ListProjectUploads(ctx context.Context) ([]model.ProjectUpload, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, registration_code, email, file_path, file_ext, content_type, size_bytes, status, created_at
		FROM project_uploads
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []model.ProjectUpload
	for rows.Next() {
		var upload model.ProjectUpload
		if err := rows.Scan(
			&upload.ID,
			&upload.RegistrationCode,
			&upload.Email,
			&upload.FilePath,
			&upload.FileExt,
			&upload.ContentType,
			&upload.SizeBytes,
			&upload.Status,
			&upload.CreatedAt,
		); err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, rows.Err()
}

func (s *Store) GetSubmissionByEmail(ctx context.Context, email string) (model.ContestSubmission, error) {
	var sub model.ContestSubmission
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, video_url, social_url, submitted_at
		FROM contest_submissions
		WHERE lower(email) = lower($1)
	`, email)
	err := row.Scan(&sub.ID, &sub.Email, &sub.VideoURL, &sub.SocialURL, &sub.SubmittedAt)
	return sub, err
}

func (s *Store) CreateSubmission(ctx context.Context, sub model.ContestSubmission) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO contest_submissions (id, email, video_url, social_url, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sub.ID, sub.Email, sub.VideoURL, sub.SocialURL, sub.SubmittedAt)
	return err
}

func (s *Store) ListSubmissions(ctx context.Context) ([]model.ContestSubmission, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, email, video_url, social_url, submitted_at
		FROM contest_submissions
		ORDER BY submitted_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.ContestSubmission
	for rows.Next() {
		var sub model.ContestSubmission
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.VideoURL, &sub.SocialURL, &sub.SubmittedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (model.AdminUser, error) {
	var admin model.AdminUser
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM admin_users
		WHERE lower(email) = lower($1)
	`, email)
	err := row.Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	return admin, err
}

func (s *Store) CreateAdmin(ctx context.Context, admin model.AdminUser) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO admin_users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING
	`, admin.ID, admin.Email, admin.PasswordHash, admin.CreatedAt)
	return err
}
