package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/chronosync/chronosync/internal/database"
	"github.com/chronosync/chronosync/internal/middleware"
	"github.com/chronosync/chronosync/internal/models"
	"github.com/chronosync/chronosync/internal/queue"
	"github.com/chronosync/chronosync/internal/request"
	"github.com/chronosync/chronosync/internal/services/mail"
	"github.com/chronosync/chronosync/internal/validation"
)

const minPasswordLength = 8

// AuthHandler handles signup, login and email verification
type AuthHandler struct {
	userRepo  database.UserRepositoryInterface
	jobQueue  queue.JobQueue
	jwtSecret string
	logger    *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userRepo database.UserRepositoryInterface, jobQueue queue.JobQueue, jwtSecret string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo:  userRepo,
		jobQueue:  jobQueue,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// RegisterPublicRoutes registers the unauthenticated auth routes
// The router should already have the /auth prefix
func (h *AuthHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/signup", h.Signup).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/verify-email", h.VerifyEmail).Methods("GET")
}

// RegisterProtectedRoutes registers the auth routes that require a session
func (h *AuthHandler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/me", h.GetMe).Methods("GET")
}

// SignupRequest represents a signup request
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse carries a fresh token and its user
type SessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup registers a new account and enqueues the verification email
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name, email and password are required")
		return
	}
	if len(req.Password) < minPasswordLength {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Password must be at least 8 characters")
		return
	}
	if err := mail.ScreenAddress(req.Email); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	ctx := r.Context()
	existing, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create account")
		return
	}
	if existing != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "An account with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create account")
		return
	}

	verificationToken := uuid.NewString()
	user := &models.User{
		ID:                 uuid.New(),
		Email:              req.Email,
		PasswordHash:       string(hash),
		Name:               validation.SanitizeText(req.Name),
		VerificationToken:  &verificationToken,
		Plan:               models.PlanFree,
		SubscriptionStatus: models.SubscriptionStatusNone,
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		h.logger.Error("signup_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create account")
		return
	}

	h.enqueue(r, queue.NewVerificationEmailJob(user.ID, user.Email, verificationToken))
	h.enqueue(r, queue.NewUserNotificationJob(user.ID, user.Email, user.Name))

	token, err := middleware.IssueToken(user.ID, h.jwtSecret)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create session")
		return
	}

	h.logger.Info("user_registered", zap.String("user_id", user.ID.String()))
	respondJSON(w, http.StatusCreated, SessionResponse{Token: token, User: user})
}

// Login checks credentials and mints a session token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Email and password are required")
		return
	}

	ctx := r.Context()
	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same answer for unknown email and wrong password
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
		return
	}

	token, err := middleware.IssueToken(user.ID, h.jwtSecret)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create session")
		return
	}

	respondJSON(w, http.StatusOK, SessionResponse{Token: token, User: user})
}

// VerifyEmail marks the account verified and enqueues the welcome email
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "token query parameter is required")
		return
	}

	ctx := r.Context()
	user, err := h.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid or expired verification token")
		return
	}

	if !user.EmailVerified {
		user.EmailVerified = true
		user.VerificationToken = nil
		if err := h.userRepo.Update(ctx, user); err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to verify email")
			return
		}
		h.enqueue(r, queue.NewWelcomeEmailJob(user.ID, user.Email, user.Name))
	}

	respondJSONMessage(w, http.StatusOK, "Email verified successfully", nil)
}

// GetMe returns current user information
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// enqueue publishes a mail job; delivery failures never fail the request
func (h *AuthHandler) enqueue(r *http.Request, job *queue.Job) {
	if h.jobQueue == nil {
		return
	}
	if err := h.jobQueue.Enqueue(r.Context(), job); err != nil {
		h.logger.Error("mail_job_enqueue_failed",
			zap.String("job_type", string(job.Type)),
			zap.Error(err))
	}
}
