package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/fileio"
	"github.com/talifan/adv-reverse2seaf/internal/logging"
	"github.com/talifan/adv-reverse2seaf/internal/models"
	"github.com/talifan/adv-reverse2seaf/internal/parser"
	"github.com/talifan/adv-reverse2seaf/internal/pipeline"
)

// MaxBodyBytes caps the decoded size of a request body.
const MaxBodyBytes = 64 << 20

// ConvertResponse is the body of a successful /convert call.
type ConvertResponse struct {
	Prefix   string                `json:"prefix"`
	Targets  *models.TargetBundle  `json:"targets"`
	Warnings []string              `json:"warnings"`
	Steps    []pipeline.StepReport `json:"steps"`
	Skipped  []string              `json:"skipped,omitempty"`
}

// API serves conversions of posted inventories.
type API struct {
	BranchSegments map[string]string
	Logger         *slog.Logger
}

// ConvertHandler converts the posted inventory and returns the target bundle
// with its warnings.
func (a *API) ConvertHandler(w http.ResponseWriter, r *http.Request) {
	result, ok := a.convert(w, r)
	if !ok {
		return
	}
	a.respond(w, r, ConvertResponse{
		Prefix:   result.Prefix,
		Targets:  result.Targets,
		Warnings: result.WarningLines(),
		Steps:    result.Steps,
		Skipped:  result.Skipped,
	})
}

// GraphHandler converts the posted inventory and returns its reference graph.
func (a *API) GraphHandler(w http.ResponseWriter, r *http.Request) {
	result, ok := a.convert(w, r)
	if !ok {
		return
	}
	a.respond(w, r, parser.BuildGraph(result.Targets, result.Prefix))
}

func (a *API) convert(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}
	defer r.Body.Close()

	encoding := r.Header.Get("Content-Encoding")
	if !fileio.IsEncodingSupported(encoding) {
		http.Error(w, "Unsupported content encoding: "+encoding, http.StatusUnsupportedMediaType)
		return nil, false
	}
	reader, err := fileio.Decompress(r.Body, encoding)
	if err != nil {
		http.Error(w, "Failed to read body: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer reader.Close()

	body, err := io.ReadAll(io.LimitReader(reader, MaxBodyBytes+1))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return nil, false
	}
	if len(body) > MaxBodyBytes {
		http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return nil, false
	}

	src, err := parser.ParseSource(body)
	if err != nil {
		http.Error(w, "Invalid inventory: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	query := r.URL.Query()
	result, err := pipeline.Convert(src, pipeline.Options{
		Prefix:         query.Get("prefix"),
		Kinds:          splitList(query.Get("kinds")),
		BranchSegments: a.BranchSegments,
		Logger:         a.Logger,
	})
	switch {
	case errors.Is(err, pipeline.ErrConflict):
		http.Error(w, "Conversion conflict: "+err.Error(), http.StatusUnprocessableEntity)
		return nil, false
	case err != nil:
		a.logger().Error("conversion failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return result, true
}

func (a *API) respond(w http.ResponseWriter, r *http.Request, body any) {
	w.Header().Set("Content-Type", "application/json")

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(body); err != nil {
		a.logger().Error("failed to encode response", "error", err)
	}
}

func (a *API) logger() *slog.Logger {
	return logging.OrDiscard(a.Logger)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
