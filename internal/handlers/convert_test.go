package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talifan/adv-reverse2seaf/internal/models"
)

const inventory = `
seaf.ta.reverse.cloud_ru.advanced.vpcs:
  acme.vpcs.v1:
    id: v1
    name: main
    cidr: 10.10.0.0/16
seaf.ta.reverse.cloud_ru.advanced.subnets:
  acme.subnets.s1:
    id: s1
    name: apps
    cidr: 10.10.0.0/24
    vpc: v1
seaf.ta.reverse.cloud_ru.advanced.ecss:
  acme.ecss.vm1:
    id: vm1
    az: ru-moscow-1a
    subnets: [s1]
`

type decodedResponse struct {
	Prefix   string                                `json:"prefix"`
	Targets  map[string]map[string]json.RawMessage `json:"targets"`
	Warnings []string                              `json:"warnings"`
	Skipped  []string                              `json:"skipped"`
}

func post(t *testing.T, handler http.HandlerFunc, target string, body []byte, encoding string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	if encoding != "" {
		req.Header.Set("Content-Encoding", encoding)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) decodedResponse {
	t.Helper()
	var response decodedResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestConvertHandler(t *testing.T) {
	api := &API{}

	t.Run("returns converted bundle", func(t *testing.T) {
		w := post(t, api.ConvertHandler, "/convert", []byte(inventory), "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		response := decode(t, w)
		assert.Equal(t, "acme", response.Prefix)
		assert.Contains(t, response.Targets[models.TargetNetworkSegment], "acme.vpcs.v1")
		assert.Contains(t, response.Targets[models.TargetNetworkDevice], "acme.vpcs.v1.router")
		assert.Contains(t, response.Targets[models.TargetServer], "acme.ecss.vm1")
		assert.Contains(t, response.Warnings, "WARNING: Entity 'acme.ecss.vm1' - Field 'name': Missing 'name'. Title will be empty.")
	})

	t.Run("keeps target kind order", func(t *testing.T) {
		w := post(t, api.ConvertHandler, "/convert", []byte(inventory), "")
		body := w.Body.String()
		assert.Less(t, strings.Index(body, models.TargetDCRegion), strings.Index(body, models.TargetNetworkSegment))
		assert.Less(t, strings.Index(body, models.TargetNetworkSegment), strings.Index(body, models.TargetServer))
	})

	t.Run("honours prefix and kinds", func(t *testing.T) {
		w := post(t, api.ConvertHandler, "/convert?prefix=corp&kinds=vpcs,%20routers", []byte(inventory), "")

		require.Equal(t, http.StatusOK, w.Code)
		response := decode(t, w)
		assert.Equal(t, "corp", response.Prefix)
		assert.Equal(t, []string{"routers"}, response.Skipped)
		assert.Contains(t, response.Targets[models.TargetNetworkSegment], "corp.vpcs.v1")
		assert.NotContains(t, response.Targets, models.TargetServer)
	})

	t.Run("accepts JSON bodies", func(t *testing.T) {
		body := `{"seaf.ta.reverse.cloud_ru.advanced.branches": {"b.k": {"id": "kremlin", "name": "Кремль", "country": "Россия", "city": "Москва"}}}`
		w := post(t, api.ConvertHandler, "/convert?prefix=tenant", []byte(body), "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"region":"tenant.dc_region.россия_москва"`)
	})

	t.Run("decompresses gzip bodies", func(t *testing.T) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write([]byte(inventory))
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		w := post(t, api.ConvertHandler, "/convert", buf.Bytes(), "gzip")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("decompresses zstd bodies", func(t *testing.T) {
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, err = enc.Write([]byte(inventory))
		require.NoError(t, err)
		require.NoError(t, enc.Close())

		w := post(t, api.ConvertHandler, "/convert", buf.Bytes(), "zstd")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("pretty output is indented", func(t *testing.T) {
		w := post(t, api.ConvertHandler, "/convert?pretty=true", []byte(inventory), "")
		assert.True(t, strings.HasPrefix(w.Body.String(), "{\n  \"prefix\""))
	})

	t.Run("returns 405 for GET request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/convert", nil)
		w := httptest.NewRecorder()

		api.ConvertHandler(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("returns 400 for empty body", func(t *testing.T) {
		w := post(t, api.ConvertHandler, "/convert", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "empty source data")
	})

	t.Run("returns 400 for malformed structure", func(t *testing.T) {
		w := post(t, api.ConvertHandler, "/convert", []byte("- not\n- a mapping\n"), "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "malformed source bundle")
	})

	t.Run("returns 400 for corrupt gzip", func(t *testing.T) {
		w := post(t, api.ConvertHandler, "/convert", []byte(inventory), "gzip")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 415 for unknown encoding", func(t *testing.T) {
		w := post(t, api.ConvertHandler, "/convert", []byte(inventory), "br")
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("returns 422 for conflicting entities", func(t *testing.T) {
		body := `
seaf.ta.reverse.cloud_ru.advanced.vpcs:
  one.vpcs.x:
    name: first
  two.vpcs.x:
    name: second
`
		w := post(t, api.ConvertHandler, "/convert?prefix=acme", []byte(body), "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "acme.vpcs.x")
	})
}

func TestGraphHandler(t *testing.T) {
	api := &API{}

	t.Run("returns reference graph", func(t *testing.T) {
		w := post(t, api.GraphHandler, "/graph", []byte(inventory), "")
		require.Equal(t, http.StatusOK, w.Code)

		var graph models.Graph
		require.NoError(t, json.NewDecoder(w.Body).Decode(&graph))
		require.NotNil(t, graph.Stats)
		assert.Equal(t, len(graph.Nodes), graph.Stats.TotalNodes)
		assert.Contains(t, graph.Edges, models.Edge{
			Source: "acme.vpcs.v1.router",
			Target: "acme.subnets.s1",
			Type:   "network_connection",
		})
	})

	t.Run("returns 405 for GET request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/graph", nil)
		w := httptest.NewRecorder()

		api.GraphHandler(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"vpcs", "subnets"}, splitList(" vpcs, ,subnets "))
}
