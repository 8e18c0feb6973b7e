package backend

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/michael-freling/testcase-generator/internal/logging"
	"github.com/michael-freling/testcase-generator/internal/remote"
	"github.com/michael-freling/testcase-generator/internal/testcase"
)

const (
	serviceName = "test-case-generator"
	// maxRequestBytes bounds request bodies
	maxRequestBytes = 1 << 20

	detailRequirementsEmpty = "Requirements cannot be empty"
	detailInputsEmpty       = "Requirements and current test cases cannot be empty"
	detailInvalidRequest    = "Invalid request body"
)

// GenerateTextResponse is the text-mode body of /generate-test-cases
type GenerateTextResponse struct {
	TestCases string `json:"test_cases"`
	Message   string `json:"message"`
}

// GenerateListResponse is the structured body of /generate-test-cases
type GenerateListResponse struct {
	TestCases []testcase.TestCase `json:"test_cases"`
	Message   string              `json:"message"`
}

// AnalyzeResponse is the body of /analyze-coverage
type AnalyzeResponse struct {
	Analysis string `json:"analysis"`
}

// Handler serves the test case API
type Handler struct {
	structured bool
	logger     logging.Logger
}

// NewHandler creates a handler. structured selects the list response shape of /generate-test-cases.
func NewHandler(structured bool, logger logging.Logger) *Handler {
	return &Handler{
		structured: structured,
		logger:     logger,
	}
}

// RegisterRoutes registers the API routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Root).Methods(http.MethodGet)
	router.HandleFunc(remote.HealthPath, h.Health).Methods(http.MethodGet)
	router.HandleFunc(remote.GeneratePath, h.GenerateTestCases).Methods(http.MethodPost)
	router.HandleFunc(remote.AnalyzePath, h.AnalyzeCoverage).Methods(http.MethodPost)
}

// Root handles GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Test Case Generator API is running!"})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, remote.HealthStatus{Status: "healthy", Service: serviceName})
}

// GenerateTestCases handles POST /generate-test-cases
func (h *Handler) GenerateTestCases(w http.ResponseWriter, r *http.Request) {
	var req remote.GenerateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Requirements) == "" {
		WriteError(w, http.StatusBadRequest, detailRequirementsEmpty)
		return
	}

	message := "Test cases generated successfully"
	if h.structured {
		cases := GenerateStructured(req.Requirements)
		h.logger.Info("generated test cases", "mode", testcase.ModeStructured, "count", len(cases))
		WriteJSON(w, http.StatusOK, GenerateListResponse{TestCases: cases, Message: message})
		return
	}

	h.logger.Info("generated test cases", "mode", testcase.ModeText, "requirements_length", len(req.Requirements))
	WriteJSON(w, http.StatusOK, GenerateTextResponse{TestCases: GenerateText(req.Requirements), Message: message})
}

// AnalyzeCoverage handles POST /analyze-coverage
func (h *Handler) AnalyzeCoverage(w http.ResponseWriter, r *http.Request) {
	var req remote.AnalyzeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Requirements) == "" || strings.TrimSpace(req.CurrentTestCases) == "" {
		WriteError(w, http.StatusBadRequest, detailInputsEmpty)
		return
	}

	analysis := AnalyzeCoverage(req.Requirements, req.CurrentTestCases)
	h.logger.Info("analyzed coverage", "requirements_length", len(req.Requirements), "tests_length", len(req.CurrentTestCases))
	WriteJSON(w, http.StatusOK, AnalyzeResponse{Analysis: analysis})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(v); err != nil {
		h.logger.Warn("failed to decode request", "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusUnprocessableEntity, detailInvalidRequest)
		return false
	}
	return true
}
