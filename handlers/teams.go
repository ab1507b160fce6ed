// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/teamdex/auth"
	"github.com/danielhkuo/teamdex/catalog"
	"github.com/danielhkuo/teamdex/cliparse"
	"github.com/danielhkuo/teamdex/middleware"
	"github.com/danielhkuo/teamdex/models"
	"github.com/danielhkuo/teamdex/store"
)

const minTeamNameLength = 3

type TeamHandler struct {
	st  *store.Store
	cat *catalog.Catalog
	cfg cliparse.Config
}

func NewTeamHandler(st *store.Store, cat *catalog.Catalog, cfg cliparse.Config) *TeamHandler {
	return &TeamHandler{st: st, cat: cat, cfg: cfg}
}

// CreateTeam handles POST /teams
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTeamRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	if utf8.RuneCountInString(name) < minTeamNameLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name must be at least 3 characters")
		return
	}

	// Rules default to permissive
	allowMegas, allowLegendaries := true, true
	if req.AllowMegas != nil {
		allowMegas = *req.AllowMegas
	}
	if req.AllowLegendaries != nil {
		allowLegendaries = *req.AllowLegendaries
	}

	teamID := auth.NewTeamID()
	adminKey := auth.GenerateAdminKey(teamID, h.cfg.AdminKeySalt)
	shareSlug := auth.GenerateShareSlug(teamID, h.cfg.TeamSlugSalt)

	_, err := h.st.CreateTeam(r.Context(), models.SavedTeam{
		ID:               teamID,
		Name:             name,
		Description:      req.Description,
		AllowMegas:       allowMegas,
		AllowLegendaries: allowLegendaries,
		ShareSlug:        shareSlug,
	})
	if err != nil {
		slog.Error("failed to insert team", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create team")
		return
	}

	slog.Info("team created", "team_id", teamID, "name", name)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateTeamResponse{
		TeamID:    teamID,
		AdminKey:  adminKey,
		ShareSlug: shareSlug,
	})
}

// AddMember handles POST /teams/{id}/members
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	teamID := r.PathValue("id")
	if teamID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "team_id is required")
		return
	}

	// Validate admin key
	adminKey := r.Header.Get(auth.AdminKeyHeader)
	if err := auth.ValidateAdminKey(teamID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.AddMemberRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	member, err := h.st.AddTeamMember(r.Context(), teamID, req.PokemonID, req.Position, req.Nickname)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrInvalidPosition):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, models.ErrTeamTooLarge),
		errors.Is(err, models.ErrPositionTaken),
		errors.Is(err, models.ErrDuplicateMember):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, models.ErrMegaNotAllowed), errors.Is(err, models.ErrLegendaryBlocked):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
		return
	default:
		slog.Error("failed to add team member", "team_id", teamID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add member")
		return
	}

	slog.Info("team member added", "team_id", teamID, "pokemon", member.Pokemon.Name, "position", member.Position)

	middleware.JSONResponse(w, http.StatusCreated, member)
}

// GetTeam handles GET /teams/{slug}
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, ok := h.teamBySlug(w, r)
	if !ok {
		return
	}

	members, err := h.st.TeamMembers(r.Context(), team.ID)
	if err != nil {
		slog.Error("failed to query team members", "team_id", team.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TeamDetailResponse{
		Team:        team,
		MemberCount: len(members),
		Age:         humanize.Time(team.CreatedAt),
		Members:     members,
	})
}

// GetVulnerability handles GET /teams/{slug}/vulnerability
func (h *TeamHandler) GetVulnerability(w http.ResponseWriter, r *http.Request) {
	saved, ok := h.teamBySlug(w, r)
	if !ok {
		return
	}

	members, err := h.st.TeamMembers(r.Context(), saved.ID)
	if err != nil {
		slog.Error("failed to query team members", "team_id", saved.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	pokemon := make([]models.Pokemon, len(members))
	for i, m := range members {
		pokemon[i] = m.Pokemon
	}
	team, err := models.NewTeam(pokemon)
	if err != nil {
		writeTeamError(w, err)
		return
	}

	scores, version, err := h.cat.Analyze(r.Context(), team)
	if err != nil {
		slog.Error("failed to analyze team", "team_id", saved.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to analyze team")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AnalyzeResponse{
		Team:           team.Members,
		Scores:         scores,
		DatasetVersion: version,
	})
}

// GetActivity handles GET /teams/{id}/activity
func (h *TeamHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	teamID := r.PathValue("id")
	if teamID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "team_id is required")
		return
	}

	adminKey := r.Header.Get(auth.AdminKeyHeader)
	if err := auth.ValidateAdminKey(teamID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	if _, err := h.st.GetTeamByID(r.Context(), teamID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Team not found")
			return
		}
		slog.Error("failed to get team", "team_id", teamID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	entries, err := h.st.ActivityLog(r.Context(), teamID)
	if err != nil {
		slog.Error("failed to query activity log", "team_id", teamID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, entries)
}

// teamBySlug loads the team named by the slug path value, writing the error
// response itself when it cannot.
func (h *TeamHandler) teamBySlug(w http.ResponseWriter, r *http.Request) (models.SavedTeam, bool) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return models.SavedTeam{}, false
	}

	team, err := h.st.GetTeamBySlug(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Team not found")
		return models.SavedTeam{}, false
	}
	if err != nil {
		slog.Error("failed to get team", "slug", slug, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.SavedTeam{}, false
	}
	return team, true
}
