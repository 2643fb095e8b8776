package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
	"github.com/dmitrijs2005/handlekeeper/internal/server/models"
	"github.com/dmitrijs2005/handlekeeper/internal/server/services"
	"github.com/gorilla/mux"
)

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type authUser struct {
	AccountID int64  `json:"accountId"`
	Handle    string `json:"handle"`
}

type authCheckResponse struct {
	IsAuthenticated bool     `json:"isAuthenticated"`
	User            authUser `json:"user"`
}

type projectResponse struct {
	Message string          `json:"message"`
	Project *models.Project `json:"project"`
}

type projectListResponse struct {
	Projects []*models.Project `json:"projects"`
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := s.accounts.Register(r.Context(), in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "registered successfully"})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.accounts.Login(r.Context(), in)
	if err != nil {
		result := "error"
		if errors.Is(err, common.ErrorInvalidCredentials) {
			result = "invalid_credentials"
		}
		s.metrics.LoginsTotal.WithLabelValues(result).Inc()
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.LoginsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, loginResponse{Message: "login successful", Token: res.Token})
}

func (s *HTTPServer) handleAuthCheck(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	writeJSON(w, http.StatusOK, authCheckResponse{
		IsAuthenticated: true,
		User:            authUser{AccountID: claims.AccountID, Handle: claims.Handle},
	})
}

func (s *HTTPServer) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var in services.ProjectInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.projects.Create(r.Context(), claims.AccountID, claims.Handle, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, projectResponse{Message: "project created", Project: p})
}

func (s *HTTPServer) handleListProjects(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	ps, err := s.projects.List(r.Context(), claims.AccountID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, projectListResponse{Projects: ps})
}

func (s *HTTPServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	handle := mux.Vars(r)["handle"]

	p, err := s.accounts.Profile(r.Context(), handle)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(r.Context(), "health check failed", "error", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
