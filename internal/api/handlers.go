package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/phantom-scope/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/phantom-scope/internal/errors"
	"github.com/ZanzyTHEbar/phantom-scope/internal/types"
)

// handleHealth godoc
// @Summary      Health check
// @Description  Reports liveness, version and request counters
// @Tags         system
// @Produce      json
// @Success      200  {object}  types.HealthResponse
// @Router       /health [get]
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:      "ok",
		Version:     s.version,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Stats:       s.metrics.GetStats(),
		Compression: s.compression.Stats(),
	})
}

// handleArchetypes godoc
// @Summary      List archetypes
// @Description  Returns the archetype catalogue in priority order
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  types.ArchetypesResponse
// @Router       /v1/archetypes [get]
func (s *Server) handleArchetypes(c *gin.Context) {
	c.JSON(http.StatusOK, types.ArchetypesResponse{Archetypes: analysis.Archetypes()})
}

// handleAnalyze godoc
// @Summary      Analyze one developer profile
// @Description  Scores the four dimensions, estimates AI usage and assigns an archetype
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        signals  body      analysis.ProfileSignals  true  "Normalized profile signals"
// @Success      200      {object}  analysis.Result
// @Failure      400      {object}  apperrors.ErrorResponse
// @Failure      413      {object}  apperrors.ErrorResponse
// @Failure      429      {object}  apperrors.ErrorResponse
// @Failure      500      {object}  apperrors.ErrorResponse
// @Router       /v1/analyze [post]
func (s *Server) handleAnalyze(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.fail(c, bodyError(err))
		return
	}

	start := time.Now()
	result, err := s.engine.AnalyzeJSON(body)
	if err != nil {
		s.fail(c, err)
		return
	}
	duration := time.Since(start)

	s.recordResult(result, duration)
	c.JSON(http.StatusOK, result)
}

// handleTeamAnalyze godoc
// @Summary      Analyze a team
// @Description  Analyzes every member and aggregates an anonymous team summary
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body      types.TeamAnalyzeRequest  true  "Between 1 and 50 member profiles"
// @Success      200      {object}  types.TeamAnalyzeResponse
// @Failure      400      {object}  apperrors.ErrorResponse
// @Failure      413      {object}  apperrors.ErrorResponse
// @Failure      429      {object}  apperrors.ErrorResponse
// @Failure      504      {object}  apperrors.ErrorResponse
// @Router       /v1/team/analyze [post]
func (s *Server) handleTeamAnalyze(c *gin.Context) {
	var req types.TeamAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, teamBindError(err))
		return
	}

	ctx := c.Request.Context()
	start := time.Now()
	results := make([]analysis.Result, 0, len(req.Members))

	for i, member := range req.Members {
		if err := ctx.Err(); err != nil {
			s.fail(c, err)
			return
		}

		result, err := s.engine.Analyze(member)
		if err != nil {
			s.fail(c, memberError(i, err))
			return
		}
		results = append(results, result)
	}

	summary := analysis.SummarizeTeam(results)
	duration := time.Since(start)

	s.metrics.RecordTeamAnalysis(duration)
	s.logger.TeamAnalysisLogger(summary.TeamSize, summary.AIAdoptionRate, duration)

	c.JSON(http.StatusOK, types.TeamAnalyzeResponse{Members: results, Summary: summary})
}

// fail converts err, counts it and hands it to the error middleware.
func (s *Server) fail(c *gin.Context, err error) {
	appErr := apperrors.ToAppError(err)
	s.metrics.RecordAnalysisError(string(appErr.Category))
	_ = c.Error(appErr)
	c.Abort()
}

func (s *Server) recordResult(result analysis.Result, duration time.Duration) {
	s.metrics.RecordAnalysis(
		string(result.Archetype.ID),
		string(result.AIAnalysis.OverallBucket),
		result.Archetype.Confidence,
		duration,
	)
	s.logger.AnalysisLogger(
		string(result.Archetype.ID),
		string(result.AIAnalysis.OverallBucket),
		result.Archetype.Confidence,
		result.AIAnalysis.CommitsAnalyzed,
		duration,
	)
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		appErr := apperrors.NewValidationError("Request body too large", "body")
		appErr.HTTPStatus = http.StatusRequestEntityTooLarge
		return appErr
	}
	return apperrors.NewValidationError("Unable to read request body", "body")
}

func teamBindError(err error) error {
	if fields := types.ValidationFields(err); fields != nil {
		return apperrors.NewValidationErrorWithMap(fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.NewValidationError("Invalid profile signals", typeErr.Field)
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return bodyError(err)
	}

	return apperrors.NewValidationError("Malformed request body", "")
}

// memberError prefixes the failing field with the member position.
func memberError(index int, err error) error {
	var invalid *analysis.InvalidSignalError
	if errors.As(err, &invalid) {
		return apperrors.NewValidationError("Invalid profile signals", fmt.Sprintf("members[%d].%s", index, invalid.Field))
	}
	return err
}
