package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flexiflight/internal/analysis"
	"github.com/dharmasatrya/flexiflight/internal/interpreter"
	"github.com/dharmasatrya/flexiflight/internal/models"
	"github.com/dharmasatrya/flexiflight/internal/search"
)

type SearchHandler struct {
	interpreter *interpreter.Interpreter
	searcher    *search.Searcher
	analyzer    *analysis.Analyzer
}

func NewSearchHandler(interp *interpreter.Interpreter, searcher *search.Searcher, analyzer *analysis.Analyzer) *SearchHandler {
	return &SearchHandler{
		interpreter: interp,
		searcher:    searcher,
		analyzer:    analyzer,
	}
}

type SearchRequest struct {
	Query   string `json:"query"`
	Analyze bool   `json:"analyze"`
}

// Interpret runs only the requirement interpretation pipeline: free text in,
// validated search parameter records and diagnostics out. No provider call.
func (h *SearchHandler) Interpret(c echo.Context) error {
	ctx := c.Request().Context()

	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "query is required",
			Code:    http.StatusBadRequest,
		})
	}

	params, diags := h.interpreter.Interpret(ctx, req.Query)
	if len(params) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "interpretation_error",
			Message: "No usable search query could be built from the request",
			Code:    http.StatusUnprocessableEntity,
			Details: diags,
		})
	}

	return c.JSON(http.StatusOK, models.InterpretResponse{
		SearchID:    uuid.NewString(),
		Query:       req.Query,
		Params:      params,
		Diagnostics: diags,
	})
}

// Search runs the full pipeline: interpret, fan the query variants out
// through the cache gateway, and (optionally) analyse each result.
func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "query is required",
			Code:    http.StatusBadRequest,
		})
	}

	params, diags := h.interpreter.Interpret(ctx, req.Query)
	if len(params) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "interpretation_error",
			Message: "No usable search query could be built from the request",
			Code:    http.StatusUnprocessableEntity,
			Details: diags,
		})
	}

	result := h.searcher.SearchAll(ctx, params)

	if req.Analyze {
		for i := range result.Variants {
			variant := &result.Variants[i]
			flightAnalysis, err := h.analyzer.Analyze(ctx, variant.Params, variant.Raw)
			if err != nil {
				diags = append(diags, "analysis failed for "+variant.Params.Route()+": "+err.Error())
				continue
			}
			variant.Analysis = flightAnalysis
			variant.Raw = nil
		}
	}

	return c.JSON(http.StatusOK, models.SearchResponse{
		SearchID: uuid.NewString(),
		Query:    req.Query,
		Metadata: models.SearchMetadata{
			VariantsQueried:   result.VariantsQueried,
			VariantsSucceeded: result.VariantsSucceeded,
			VariantsFailed:    result.VariantsFailed,
			FailedVariants:    result.FailedVariants,
			CacheHits:         result.CacheHits,
			SearchTimeMs:      time.Since(startTime).Milliseconds(),
		},
		Results:     result.Variants,
		Diagnostics: diags,
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
