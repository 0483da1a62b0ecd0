package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"

	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/auth"
	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/config"
	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/crypto"
	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/event"
	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/model"
	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/objstore"
	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/repository"
	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/validate"
)

const (
	contestEvent = "video-contest"
	projectEvent = "coding-camp"

	verifyKeyPrefix = "contest:verify:"

	videoURLDomain  = "drive.google.com"
	socialURLDomain = "instagram.com"
)

type Server struct {
	cfg       config.Config
	store     *repository.Store
	objects   *objstore.Client
	redis     *redis.Client
	verifyTTL time.Duration
}

// NewServer accepts nil for store, objects and redisClient; the affected
// routes then answer with a configuration error instead of failing at boot.
func NewServer(cfg config.Config, store *repository.Store, objects *objstore.Client, redisClient *redis.Client) *Server {
	return &Server{
		cfg:       cfg,
		store:     store,
		objects:   objects,
		redis:     redisClient,
		verifyTTL: cfg.VerifyTokenTTL,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/events", s.handleListEvents)

	r.With(s.requireStore).Post("/events/{event}/registrations", s.handleCreateRegistration)
	r.With(s.requireStore).Get("/events/{event}/registrations/lookup", s.handleLookupRegistration)
	r.With(s.requireStore).Post("/projects", s.handleCreateProjectUpload)
	r.With(s.requireStore).Post("/contest/verify", s.handleContestVerify)
	r.With(s.requireStore).Post("/contest/submissions", s.handleCreateSubmission)

	r.Post("/admin/login", s.handleAdminLogin)
	r.With(s.authMiddleware).Get("/admin/me", s.handleAdminMe)
	r.With(s.authMiddleware, s.requireStore).Get("/admin/registrations", s.handleAdminListRegistrations)
	r.With(s.authMiddleware, s.requireStore).Get("/admin/registrations/export", s.handleAdminExportRegistrations)
	r.With(s.authMiddleware, s.requireStore).Get("/admin/submissions", s.handleAdminListSubmissions)
	r.With(s.authMiddleware, s.requireStore).Get("/admin/projects", s.handleAdminListProjects)

	return r
}

// Middleware

type claimsKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		claims, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		if claims.Role != "admin" {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

// requireStore degrades every data route to a configuration error when the
// backend settings were never supplied.
func (s *Server) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store == nil {
			writeError(w, http.StatusServiceUnavailable, "backend_not_configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Models

type eventResponse struct {
	Slug             string   `json:"slug"`
	Name             string   `json:"name"`
	Classification   string   `json:"classification"`
	Categories       []string `json:"categories,omitempty"`
	RegistrationOpen bool     `json:"registrationOpen"`
}

type createRegistrationRequest struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Classification string `json:"classification"`
	Institution    string `json:"institution"`
	City           string `json:"city"`
}

type registrationResponse struct {
	RegistrationCode string `json:"registrationCode"`
	Event            string `json:"event"`
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Classification   string `json:"classification"`
	Institution      string `json:"institution"`
	City             string `json:"city"`
	CreatedAt        int64  `json:"createdAt"`
	HasSubmission    bool   `json:"hasSubmission,omitempty"`
}

type lookupResponse struct {
	RegistrationCode string `json:"registrationCode"`
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Classification   string `json:"classification"`
}

type contestVerifyRequest struct {
	Email string `json:"email"`
}

type contestVerifyResponse struct {
	Status           string `json:"status"`
	RegistrationCode string `json:"registrationCode"`
	FullName         string `json:"fullName"`
	Classification   string `json:"classification"`
	VerifyToken      string `json:"verifyToken,omitempty"`
}

type createSubmissionRequest struct {
	Email       string `json:"email"`
	VerifyToken string `json:"verifyToken"`
	VideoURL    string `json:"videoUrl"`
	SocialURL   string `json:"socialUrl"`
}

type submissionResponse struct {
	Email       string `json:"email"`
	VideoURL    string `json:"videoUrl"`
	SocialURL   string `json:"socialUrl"`
	SubmittedAt int64  `json:"submittedAt"`
}

type projectUploadResponse struct {
	RegistrationCode string `json:"registrationCode"`
	Email            string `json:"email"`
	FilePath         string `json:"filePath"`
	FileURL          string `json:"fileUrl,omitempty"`
	FileExt          string `json:"fileExt"`
	Status           string `json:"status"`
	CreatedAt        int64  `json:"createdAt"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// Handlers

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	open := s.cfg.RegistrationOpen(time.Now().UTC())
	events := event.All()
	resp := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, eventResponse{
			Slug:             e.Slug,
			Name:             e.Name,
			Classification:   e.Classification,
			Categories:       e.Categories,
			RegistrationOpen: open,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateRegistration(w http.ResponseWriter, r *http.Request) {
	ev, ok := event.BySlug(chi.URLParam(r, "event"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_event")
		return
	}
	if !s.cfg.RegistrationOpen(time.Now().UTC()) {
		writeError(w, http.StatusForbidden, "registration_closed")
		return
	}

	var req createRegistrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	fields := map[string]string{
		"fullName":       req.FullName,
		"email":          req.Email,
		"phone":          req.Phone,
		"classification": req.Classification,
		"institution":    req.Institution,
		"city":           req.City,
	}
	if err := validate.Required(fields, "fullName", "email", "phone", "classification", "institution", "city"); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := validate.Email(req.Email); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := validate.Phone(req.Phone); err != nil {
		writeValidationError(w, err)
		return
	}
	if !event.ValidClassification(ev, req.Classification) {
		writeValidationError(w, fmt.Errorf("select a valid %s", ev.Classification))
		return
	}

	// Friendly fast path; the unique index is the real guarantee.
	_, err := s.store.GetRegistrationByEmail(r.Context(), ev.Slug, req.Email)
	if err == nil {
		writeError(w, http.StatusConflict, "already_registered")
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		writeRemoteError(w, err)
		return
	}

	reg := model.Registration{
		ID:             uuid.NewString(),
		Event:          ev.Slug,
		FullName:       strings.TrimSpace(req.FullName),
		Email:          strings.TrimSpace(req.Email),
		Phone:          validate.Digits(req.Phone),
		Classification: req.Classification,
		Institution:    strings.TrimSpace(req.Institution),
		City:           strings.TrimSpace(req.City),
		CreatedAt:      time.Now().UTC(),
	}
	seq, err := s.store.CreateRegistration(r.Context(), reg)
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "already_registered")
			return
		}
		writeRemoteError(w, err)
		return
	}
	reg.Seq = seq

	writeJSON(w, http.StatusCreated, mapRegistration(reg, false))
}

func (s *Server) handleLookupRegistration(w http.ResponseWriter, r *http.Request) {
	ev, ok := event.BySlug(chi.URLParam(r, "event"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_event")
		return
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if err := validate.Email(email); err != nil {
		writeValidationError(w, err)
		return
	}

	reg, err := s.store.GetRegistrationByEmail(r.Context(), ev.Slug, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_registered")
			return
		}
		writeRemoteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lookupResponse{
		RegistrationCode: registrationCodeFor(reg),
		FullName:         reg.FullName,
		Email:            reg.Email,
		Classification:   reg.Classification,
	})
}

func (s *Server) handleCreateProjectUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, validate.MaxFileSize+1<<20)
	if err := r.ParseMultipartForm(validate.MaxFileSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if err := validate.Required(map[string]string{"email": email}, "email"); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := validate.Email(email); err != nil {
		writeValidationError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeValidationError(w, fmt.Errorf("project file is required"))
		return
	}
	defer file.Close()

	if err := validate.FileSize(header.Size); err != nil {
		writeValidationError(w, err)
		return
	}
	contentType := header.Header.Get("Content-Type")
	ext, err := validate.FileType(contentType)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	ev, _ := event.BySlug(projectEvent)
	reg, err := s.store.GetRegistrationByEmail(r.Context(), ev.Slug, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_registered")
			return
		}
		writeRemoteError(w, err)
		return
	}

	if _, err := s.store.GetProjectUploadByEmail(r.Context(), email); err == nil {
		writeError(w, http.StatusConflict, "upload_exists")
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		writeRemoteError(w, err)
		return
	}

	if s.objects == nil {
		writeError(w, http.StatusServiceUnavailable, "storage_not_configured")
		return
	}

	now := time.Now().UTC()
	code := registrationCodeFor(reg)
	path := objstore.ObjectPath(ev.StorageFolder, code, email, now, ext)
	if err := s.objects.Upload(r.Context(), path, file, header.Size, contentType); err != nil {
		writeRemoteError(w, err)
		return
	}

	upload := model.ProjectUpload{
		ID:               uuid.NewString(),
		RegistrationCode: code,
		Email:            email,
		FilePath:         path,
		FileExt:          ext,
		ContentType:      contentType,
		SizeBytes:        header.Size,
		Status:           "received",
		CreatedAt:        now,
	}
	if err := s.store.CreateProjectUpload(r.Context(), upload); err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "upload_exists")
			return
		}
		writeRemoteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, s.mapProjectUpload(upload))
}

func (s *Server) handleContestVerify(w http.ResponseWriter, r *http.Request) {
	var req contestVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	email := strings.TrimSpace(req.Email)
	if err := validate.Email(email); err != nil {
		writeValidationError(w, err)
		return
	}

	reg, err := s.store.GetRegistrationByEmail(r.Context(), contestEvent, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_registered")
			return
		}
		writeRemoteError(w, err)
		return
	}

	if _, err := s.store.GetSubmissionByEmail(r.Context(), email); err == nil {
		writeError(w, http.StatusConflict, "submission_exists")
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		writeRemoteError(w, err)
		return
	}

	resp := contestVerifyResponse{
		Status:           "verified",
		RegistrationCode: registrationCodeFor(reg),
		FullName:         reg.FullName,
		Classification:   reg.Classification,
	}

	if s.redis != nil {
		token, err := crypto.NewToken()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		if err := s.redis.Set(r.Context(), verifyKeyPrefix+token, strings.ToLower(email), s.verifyTTL).Err(); err != nil {
			writeRemoteError(w, err)
			return
		}
		resp.VerifyToken = token
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req createSubmissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	email := strings.TrimSpace(req.Email)
	fields := map[string]string{
		"email":     email,
		"videoUrl":  req.VideoURL,
		"socialUrl": req.SocialURL,
	}
	if err := validate.Required(fields, "email", "videoUrl", "socialUrl"); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := validate.Email(email); err != nil {
		writeValidationError(w, err)
		return
	}
	if !validVideoURL(req.VideoURL) {
		writeError(w, http.StatusBadRequest, "invalid_video_url")
		return
	}
	if !validSocialURL(req.SocialURL) {
		writeError(w, http.StatusBadRequest, "invalid_social_url")
		return
	}

	if s.redis != nil {
		token := strings.TrimSpace(req.VerifyToken)
		if token == "" {
			writeError(w, http.StatusForbidden, "verification_required")
			return
		}
		verified, err := s.consumeVerifyToken(r.Context(), token)
		if err != nil {
			writeRemoteError(w, err)
			return
		}
		if verified == "" {
			writeError(w, http.StatusForbidden, "verification_expired")
			return
		}
		if verified != strings.ToLower(email) {
			writeError(w, http.StatusForbidden, "verification_mismatch")
			return
		}
	}

	// The verify step already checked both collections; re-check here so the
	// window between the two requests cannot be abused.
	if _, err := s.store.GetRegistrationByEmail(r.Context(), contestEvent, email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_registered")
			return
		}
		writeRemoteError(w, err)
		return
	}
	if _, err := s.store.GetSubmissionByEmail(r.Context(), email); err == nil {
		writeError(w, http.StatusConflict, "submission_exists")
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		writeRemoteError(w, err)
		return
	}

	sub := model.ContestSubmission{
		ID:          uuid.NewString(),
		Email:       email,
		VideoURL:    strings.TrimSpace(req.VideoURL),
		SocialURL:   strings.TrimSpace(req.SocialURL),
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.store.CreateSubmission(r.Context(), sub); err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "submission_exists")
			return
		}
		writeRemoteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapSubmission(sub))
}

func (s *Server) consumeVerifyToken(ctx context.Context, token string) (string, error) {
	value, err := s.redis.GetDel(ctx, verifyKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return
	}

	ok, err := s.checkAdminCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		writeRemoteError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	token, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.Claims{
		Email: req.Email,
		Role:  "admin",
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		Email:       req.Email,
		Role:        "admin",
	})
}

func (s *Server) handleAdminMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"email": claims.Email,
		"role":  claims.Role,
	})
}

// checkAdminCredentials prefers the admin_users table and falls back to the
// bootstrap pair from the environment when the table has no matching row or
// the store is not configured.
func (s *Server) checkAdminCredentials(ctx context.Context, email, password string) (bool, error) {
	if s.store != nil {
		admin, err := s.store.GetAdminByEmail(ctx, email)
		if err == nil {
			return crypto.CheckPassword(admin.PasswordHash, password) == nil, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return false, err
		}
	}
	if s.cfg.AdminEmail == "" || s.cfg.AdminPasswordHash == "" {
		return false, nil
	}
	if !strings.EqualFold(s.cfg.AdminEmail, email) {
		return false, nil
	}
	return crypto.CheckPassword(s.cfg.AdminPasswordHash, password) == nil, nil
}

func (s *Server) handleAdminListRegistrations(w http.ResponseWriter, r *http.Request) {
	eventSlug := strings.TrimSpace(r.URL.Query().Get("event"))
	if eventSlug != "" {
		if _, ok := event.BySlug(eventSlug); !ok {
			writeError(w, http.StatusBadRequest, "unknown_event")
			return
		}
	}

	regs, subIndex, err := s.fetchAdminRegistrations(r.Context(), eventSlug, r.URL.Query().Get("q"))
	if err != nil {
		writeRemoteError(w, err)
		return
	}

	resp := make([]registrationResponse, 0, len(regs))
	for _, reg := range regs {
		resp = append(resp, mapRegistration(reg, subIndex[strings.ToLower(reg.Email)]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminExportRegistrations(w http.ResponseWriter, r *http.Request) {
	eventSlug := strings.TrimSpace(r.URL.Query().Get("event"))
	if eventSlug != "" {
		if _, ok := event.BySlug(eventSlug); !ok {
			writeError(w, http.StatusBadRequest, "unknown_event")
			return
		}
	}

	regs, subIndex, err := s.fetchAdminRegistrations(r.Context(), eventSlug, r.URL.Query().Get("q"))
	if err != nil {
		writeRemoteError(w, err)
		return
	}

	workbook, err := buildRegistrationWorkbook(regs, subIndex)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_ = workbook.Write(w)
}

// fetchAdminRegistrations loads the full ordered set plus the submission
// index, then applies the in-memory substring filter. Both collections stay
// small enough that a full fetch per request is acceptable.
func (s *Server) fetchAdminRegistrations(ctx context.Context, eventSlug, query string) ([]model.Registration, map[string]bool, error) {
	regs, err := s.store.ListRegistrations(ctx, eventSlug)
	if err != nil {
		return nil, nil, err
	}
	subs, err := s.store.ListSubmissions(ctx)
	if err != nil {
		return nil, nil, err
	}
	return filterRegistrations(regs, query), submissionIndex(subs), nil
}

func (s *Server) handleAdminListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.store.ListSubmissions(r.Context())
	if err != nil {
		writeRemoteError(w, err)
		return
	}
	resp := make([]submissionResponse, 0, len(subs))
	for _, sub := range subs {
		resp = append(resp, mapSubmission(sub))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminListProjects(w http.ResponseWriter, r *http.Request) {
	uploads, err := s.store.ListProjectUploads(r.Context())
	if err != nil {
		writeRemoteError(w, err)
		return
	}
	resp := make([]projectUploadResponse, 0, len(uploads))
	for _, upload := range uploads {
		resp = append(resp, s.mapProjectUpload(upload))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Mapping & pure helpers

func mapRegistration(reg model.Registration, hasSubmission bool) registrationResponse {
	return registrationResponse{
		RegistrationCode: registrationCodeFor(reg),
		Event:            reg.Event,
		FullName:         reg.FullName,
		Email:            reg.Email,
		Phone:            reg.Phone,
		Classification:   reg.Classification,
		Institution:      reg.Institution,
		City:             reg.City,
		CreatedAt:        reg.CreatedAt.Unix(),
		HasSubmission:    hasSubmission,
	}
}

func mapSubmission(sub model.ContestSubmission) submissionResponse {
	return submissionResponse{
		Email:       sub.Email,
		VideoURL:    sub.VideoURL,
		SocialURL:   sub.SocialURL,
		SubmittedAt: sub.SubmittedAt.Unix(),
	}
}

func (s *Server) mapProjectUpload(upload model.ProjectUpload) projectUploadResponse {
	resp := projectUploadResponse{
		RegistrationCode: upload.RegistrationCode,
		Email:            upload.Email,
		FilePath:         upload.FilePath,
		FileExt:          upload.FileExt,
		Status:           upload.Status,
		CreatedAt:        upload.CreatedAt.Unix(),
	}
	if s.objects != nil {
		resp.FileURL = s.objects.PublicURL(upload.FilePath)
	}
	return resp
}

func registrationCodeFor(reg model.Registration) string {
	ev, ok := event.BySlug(reg.Event)
	if !ok {
		return fmt.Sprintf("REG-%05d", reg.Seq)
	}
	return event.Code(ev, reg.Seq)
}

func validVideoURL(url string) bool {
	return strings.Contains(strings.ToLower(url), videoURLDomain)
}

func validSocialURL(url string) bool {
	return strings.Contains(strings.ToLower(url), socialURLDomain)
}

// filterRegistrations keeps rows whose display fields contain the query,
// case-insensitively. An empty query keeps everything.
func filterRegistrations(regs []model.Registration, query string) []model.Registration {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return regs
	}
	filtered := make([]model.Registration, 0, len(regs))
	for _, reg := range regs {
		if registrationMatches(reg, query) {
			filtered = append(filtered, reg)
		}
	}
	return filtered
}

func registrationMatches(reg model.Registration, query string) bool {
	for _, field := range []string{reg.FullName, reg.Email, reg.Phone, reg.Institution, reg.City, registrationCodeFor(reg)} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// submissionIndex builds the email lookup once so the listing join is a map
// hit per row instead of a scan.
func submissionIndex(subs []model.ContestSubmission) map[string]bool {
	index := make(map[string]bool, len(subs))
	for _, sub := range subs {
		index[strings.ToLower(sub.Email)] = true
	}
	return index
}

func buildRegistrationWorkbook(regs []model.Registration, subIndex map[string]bool) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Registrations"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Code", "Event", "Full Name", "Email", "Phone", "Classification", "Institution", "City", "Registered At", "Has Submission"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for rowIdx, reg := range regs {
		values := []interface{}{
			registrationCodeFor(reg),
			reg.Event,
			reg.FullName,
			reg.Email,
			reg.Phone,
			reg.Classification,
			reg.Institution,
			reg.City,
			reg.CreatedAt.UTC().Format(time.RFC3339),
			subIndex[strings.ToLower(reg.Email)],
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// Transport helpers

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeValidationError keeps the human-readable message from the first
// violated rule; these never reach the store.
func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error":   "validation_failed",
		"message": err.Error(),
	})
}

// writeRemoteError surfaces the raw store message; the audience is an
// administrator or developer, not a public UI. Known permission failures get
// their own code.
func writeRemoteError(w http.ResponseWriter, err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42501" {
		writeError(w, http.StatusForbidden, "permission_denied")
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":  "server_error",
		"detail": err.Error(),
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
