package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/benwatts/whatson/internal/database"
	"github.com/benwatts/whatson/internal/engine"
	"github.com/benwatts/whatson/internal/errors"
	"github.com/benwatts/whatson/internal/models"
)

func (s *Server) healthCheck(c *gin.Context) {
	if database.Get() == nil || database.HealthCheck() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// home renders the categorized watchlist
func (s *Server) home(c *gin.Context) {
	shows, err := s.store.ListActive()
	if err != nil {
		s.respondError(c, err)
		return
	}

	buckets := engine.Classify(shows)
	buckets.Priority = engine.SortPriority(buckets.Priority)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Priority":   buckets.Priority,
		"Backup":     buckets.Backup,
		"CatchingUp": buckets.CatchingUp,
		"Hiatus":     buckets.Hiatus,
	})
}

// showDetail renders a single show with its watch history
func (s *Server) showDetail(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	show, err := s.store.GetShow(id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	history, err := s.store.History(id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.HTML(http.StatusOK, "show.html", gin.H{
		"Show":    show,
		"History": history,
	})
}

func (s *Server) listShows(c *gin.Context) {
	shows, err := s.store.ListActive()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shows)
}

func (s *Server) getShow(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	show, err := s.store.GetShow(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, show)
}

func (s *Server) createShow(c *gin.Context) {
	var req CreateShowRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	show := &models.Show{
		Title:          req.Title,
		Service:        req.Service,
		CurrentSeason:  req.CurrentSeason,
		CurrentEpisode: req.CurrentEpisode,
		Priority:       req.Priority,
		Status:         models.Status(req.Status),
	}
	if req.AirDay != "" {
		show.AirDay = &req.AirDay
	}
	if req.Notes != "" {
		show.Notes = &req.Notes
	}

	id, err := s.store.Insert(show)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreatedResponse{ID: id, Message: "Show added"})
}

func (s *Server) updateShow(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	// Unknown fields are a client error, not something to forward to
	// the store.
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()

	var req UpdateShowRequest
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	patch := engine.ShowPatch{
		Title:            req.Title,
		Service:          req.Service,
		Status:           req.Status,
		CurrentSeason:    req.CurrentSeason,
		CurrentEpisode:   req.CurrentEpisode,
		TotalSeasons:     req.TotalSeasons,
		EpisodesInSeason: req.EpisodesInSeason,
		AirDay:           req.AirDay,
		Priority:         req.Priority,
		Notes:            req.Notes,
		TMDBID:           req.TMDBID,
		PosterURL:        req.PosterURL,
		TraktSlug:        req.TraktSlug,
	}

	if err := s.store.Patch(id, patch); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Show updated"})
}

func (s *Server) deleteShow(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	if err := s.store.Delete(id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Show deleted"})
}

func (s *Server) showHistory(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	if _, err := s.store.GetShow(id); err != nil {
		s.respondError(c, err)
		return
	}

	history, err := s.store.History(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (s *Server) markWatched(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	var req MarkWatchedRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	if err := s.store.MarkWatched(id, req.Season, req.Episode); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Episode marked as watched"})
}

func (s *Server) markCaughtUp(c *gin.Context) {
	s.applyPatchByID(c, func(models.Show) engine.ShowPatch {
		return engine.MarkCaughtUp()
	}, "Marked as caught up")
}

func (s *Server) markHiatus(c *gin.Context) {
	s.applyPatchByID(c, func(models.Show) engine.ShowPatch {
		return engine.MarkHiatus()
	}, "Marked as on hiatus")
}

func (s *Server) startNextSeason(c *gin.Context) {
	s.applyPatchByID(c, engine.StartNextSeason, "Started next season")
}

func (s *Server) nextEpisode(c *gin.Context) {
	s.applyPatchByID(c, engine.AdvanceNextEpisode, "Advanced to next episode")
}

func (s *Server) refreshShow(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	changed, err := s.enricher.RefreshShow(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	msg := "No new metadata found"
	if changed {
		msg = "Metadata refreshed"
	}
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

func (s *Server) refreshAll(c *gin.Context) {
	updated, err := s.enricher.RefreshAll(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RefreshAllResponse{
		Updated: updated,
		Message: "Bulk refresh complete",
	})
}

func (s *Server) trendingRecommendations(c *gin.Context) {
	candidates, err := s.recommends.Trending(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}

func (s *Server) searchRecommendations(c *gin.Context) {
	candidates, err := s.recommends.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}

func (s *Server) dismissRecommendation(c *gin.Context) {
	var req DismissRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	if err := s.recommends.Dismiss(req.Slug); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Recommendation dismissed"})
}

func (s *Server) addRecommendation(c *gin.Context) {
	var req AddRecommendationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	show, err := s.recommends.AddFromRecommendation(c.Request.Context(), req.Slug, req.Service)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, show)
}

// Form handlers kept deliberately dumb: mutate, then bounce back to the
// list view.

func (s *Server) formMarkCaughtUp(c *gin.Context) {
	s.applyFormPatch(c, func(models.Show) engine.ShowPatch {
		return engine.MarkCaughtUp()
	})
}

func (s *Server) formMarkHiatus(c *gin.Context) {
	s.applyFormPatch(c, func(models.Show) engine.ShowPatch {
		return engine.MarkHiatus()
	})
}

func (s *Server) formNextEpisode(c *gin.Context) {
	s.applyFormPatch(c, engine.AdvanceNextEpisode)
}

func (s *Server) formStartNextSeason(c *gin.Context) {
	s.applyFormPatch(c, engine.StartNextSeason)
}

func (s *Server) formMarkWatched(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	var req MarkWatchedRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	if err := s.store.MarkWatched(id, req.Season, req.Episode); err != nil {
		s.respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// applyPatchByID loads the show, derives a patch, applies it, and
// responds with a status message
func (s *Server) applyPatchByID(c *gin.Context, derive func(models.Show) engine.ShowPatch, message string) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	show, err := s.store.GetShow(id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.store.Patch(id, derive(*show)); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// applyFormPatch is applyPatchByID for form endpoints: same mutation,
// redirect instead of JSON
func (s *Server) applyFormPatch(c *gin.Context, derive func(models.Show) engine.ShowPatch) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	show, err := s.store.GetShow(id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.store.Patch(id, derive(*show)); err != nil {
		s.respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid id",
			Message: "show id must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

func (s *Server) respondError(c *gin.Context, err error) {
	switch errors.GetErrorCode(err) {
	case errors.CodeNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not found",
			Message: err.Error(),
		})
	case errors.CodeValidation, errors.CodeInvalidInput:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
	case errors.CodeProviderUnavailable, errors.CodeProviderTimeout, errors.CodeRateLimited:
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "provider unavailable",
			Message: "the catalog provider is not responding, try again later",
		})
	default:
		s.logger.ErrorContext(c.Request.Context(), "Request failed", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal server error",
			Message: "an unexpected error occurred",
		})
	}
}
