package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mirawen/course-staff-tools/pkg/core/model"
)

// wrapSections encodes each payload the way the catalog does: the real
// section JSON nested as a string inside the node envelope.
func wrapSections(t *testing.T, payloads ...map[string]any) string {
	t.Helper()

	type node struct {
		Node struct {
			JSON string `json:"json"`
		} `json:"node"`
	}

	var nodes []node
	for _, payload := range payloads {
		inner, err := json.Marshal(payload)
		require.NoError(t, err)
		var n node
		n.Node.JSON = string(inner)
		nodes = append(nodes, n)
	}

	outer, err := json.Marshal(map[string]any{"nodes": nodes})
	require.NoError(t, err)
	return string(outer)
}

func meeting(days, start, end, location string) map[string]any {
	m := map[string]any{
		"meetsDays": days,
		"startTime": start,
		"endTime":   end,
	}
	if location != "" {
		m["location"] = map[string]any{"description": location}
	}
	return m
}

func TestFetchAssociatedSections(t *testing.T) {
	body := wrapSections(t,
		map[string]any{
			"number":   101,
			"meetings": []any{meeting("MW", "10:00", "10:59", "Soda 320")},
		},
		map[string]any{
			"number":   102,
			"meetings": []any{meeting("TuTh", "14:00", "14:59", "Dwinelle 88")},
		},
	)

	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, zap.NewNop())
	sections, err := client.FetchAssociatedSections(context.Background(), 12345, 2258)
	require.NoError(t, err)

	assert.Equal(t, "/enrollment/json-all-associated-sections/12345/12345/2258", requestedPath)
	require.Len(t, sections, 2)

	first := sections[0]
	assert.Equal(t, "101", first.Number)
	assert.Equal(t, "Soda 320", first.Location)
	assert.Equal(t, "MW", first.Days)
	assert.Equal(t, model.TimeOfDay(10*60), first.StartTime)
	// inclusive catalog end time becomes a half-open interval
	assert.Equal(t, model.TimeOfDay(11*60), first.EndTime)
}

func TestFetchAssociatedSections_SkipsIrregularMeetings(t *testing.T) {
	body := wrapSections(t,
		map[string]any{
			"number":   201,
			"meetings": []any{},
		},
		map[string]any{
			"number": 202,
			"meetings": []any{
				meeting("M", "10:00", "10:59", "Soda 320"),
				meeting("W", "10:00", "10:59", "Soda 320"),
			},
		},
		map[string]any{
			"number":   203,
			"meetings": []any{meeting("F", "09:00", "09:59", "")},
		},
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, zap.NewNop())
	sections, err := client.FetchAssociatedSections(context.Background(), 1, 1)
	require.NoError(t, err)

	require.Len(t, sections, 1)
	assert.Equal(t, "203", sections[0].Number)
	assert.Empty(t, sections[0].Location)
}

func TestFetchAssociatedSections_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, zap.NewNop())
	_, err := client.FetchAssociatedSections(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchAssociatedSections_BadInnerPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"nodes":[{"node":{"json":"not json"}}]}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, zap.NewNop())
	_, err := client.FetchAssociatedSections(context.Background(), 1, 1)
	assert.Error(t, err)
}

func TestWriteSections_CSV(t *testing.T) {
	sections := []Section{
		{Number: "102", Location: "Dwinelle 88", Days: "TuTh", StartTime: 14 * 60, EndTime: 15 * 60},
		{Number: "101", Location: "Soda 320", Days: "MW", StartTime: 10 * 60, EndTime: 11 * 60},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSections(&buf, sections, FormatCSV))

	out := buf.String()
	assert.Contains(t, out, "Sorted by time:")
	assert.Contains(t, out, "Sorted by ID:")
	assert.Contains(t, out, "101,Soda 320,MW,10AM-11AM")
	assert.Contains(t, out, "102,Dwinelle 88,TuTh,2PM-3PM")

	// "MW" sorts before "TuTh" in the time listing
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("101,")), bytes.Index(buf.Bytes(), []byte("102,")))
}

func TestWriteSections_Table(t *testing.T) {
	sections := []Section{
		{Number: "101", Location: "Soda 320", Days: "MW", StartTime: 10 * 60, EndTime: 11 * 60},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSections(&buf, sections, FormatTable))

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Soda 320")
	assert.Contains(t, out, "10AM")
}

func TestWriteSections_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSections(&buf, nil, PrintFormat("yaml"))
	assert.Error(t, err)
}
