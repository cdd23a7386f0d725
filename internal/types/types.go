package types

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ZanzyTHEbar/phantom-scope/internal/analysis"
	"github.com/ZanzyTHEbar/phantom-scope/internal/middleware"
	"github.com/ZanzyTHEbar/phantom-scope/internal/monitoring"
)

// MaxTeamSize bounds a single team analysis request.
const MaxTeamSize = 50

// TeamAnalyzeRequest represents the request structure for the team endpoint
type TeamAnalyzeRequest struct {
	Members []analysis.ProfileSignals `json:"members" binding:"required,min=1,max=50"`
}

// TeamAnalyzeResponse carries one result per member, in request order.
type TeamAnalyzeResponse struct {
	Members []analysis.Result    `json:"members"`
	Summary analysis.TeamSummary `json:"summary"`
}

// ArchetypesResponse lists the archetype catalogue.
type ArchetypesResponse struct {
	Archetypes []analysis.ArchetypeInfo `json:"archetypes"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status      string                         `json:"status"`
	Version     string                         `json:"version"`
	Timestamp   string                         `json:"timestamp"`
	Stats       monitoring.Stats               `json:"stats"`
	Compression middleware.CompressionSnapshot `json:"compression"`
}

// ValidationFields flattens validator errors into json field name -> failed
// rule. It returns nil when err is not a validation failure.
func ValidationFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonFieldName(fe)] = fe.Tag()
	}
	return fields
}

// jsonFieldName converts "TeamAnalyzeRequest.Members" into "members".
func jsonFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.IndexByte(ns, '.'); idx >= 0 {
		ns = ns[idx+1:]
	}
	return strings.ToLower(ns)
}
