package cfpb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/mwaldt/cfpbflow/internal/domain"
)

func testWindow(t *testing.T) domain.DateRange {
	t.Helper()
	start, err := domain.ParseDate("2024-03-01")
	if err != nil {
		t.Fatal(err)
	}
	end, err := domain.ParseDate("2024-03-10")
	if err != nil {
		t.Fatal(err)
	}
	return domain.DateRange{Start: start, End: end}
}

func hitJSON(id string) string {
	return fmt.Sprintf(`{
		"_index": "complaint-public-v1",
		"_id": %q,
		"_source": {
			"complaint_id": %q,
			"date_received": "2024-03-05T12:00:00-05:00",
			"product": "Checking or savings account",
			"sub_product": "Checking account",
			"issue": "Managing an account",
			"sub_issue": "Deposits and withdrawals",
			"company": "ALPHA BANK",
			"state": "NY",
			"zip_code": "10001",
			"submitted_via": "Web",
			"company_response": "Closed with explanation",
			"consumer_disputed": "N/A",
			"timely": "Yes",
			"date_sent_to_company": "2024-03-06",
			"tags": ["Servicemember"]
		}
	}`, id, id)
}

func searchBody(ids []string) string {
	body := `{"hits":{"total":{"value":` + strconv.Itoa(len(ids)) + `},"hits":[`
	for i, id := range ids {
		if i > 0 {
			body += ","
		}
		body += hitJSON(id)
	}
	return body + `]}}`
}

func TestClientFetchWindowSinglePage(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"date_received_min": q.Get("date_received_min"),
			"date_received_max": q.Get("date_received_max"),
			"search_term":       q.Get("search_term"),
			"field":             q.Get("field"),
			"no_aggs":           q.Get("no_aggs"),
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, searchBody([]string{"1001", "1002"}))
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL, PageSize: 100})
	complaints, err := client.FetchWindow(context.Background(), "alpha bank", testWindow(t))
	if err != nil {
		t.Fatalf("FetchWindow returned error: %v", err)
	}

	if len(complaints) != 2 {
		t.Fatalf("got %d complaints, want 2", len(complaints))
	}
	c := complaints[0]
	if c.ComplaintID != "1001" {
		t.Errorf("complaint_id = %s, want 1001", c.ComplaintID)
	}
	if got := c.DateReceived.String(); got != "2024-03-05" {
		t.Errorf("date_received = %s, want 2024-03-05 (timestamp must be truncated)", got)
	}
	if c.Company != "ALPHA BANK" {
		t.Errorf("company = %s", c.Company)
	}
	if len(c.Tags) != 1 || c.Tags[0] != "Servicemember" {
		t.Errorf("tags = %v", c.Tags)
	}

	if gotQuery["date_received_min"] != "2024-03-01" || gotQuery["date_received_max"] != "2024-03-10" {
		t.Errorf("date params = %v", gotQuery)
	}
	if gotQuery["search_term"] != "alpha bank" || gotQuery["field"] != "company" {
		t.Errorf("company filter params = %v", gotQuery)
	}
	if gotQuery["no_aggs"] != "true" {
		t.Errorf("no_aggs = %q, want true", gotQuery["no_aggs"])
	}
}

func TestClientFetchWindowPaginates(t *testing.T) {
	pageSize := 2
	pages := map[int][]string{
		0: {"1", "2"},
		2: {"3", "4"},
		4: {"5"},
	}
	var requests []int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		frm, _ := strconv.Atoi(r.URL.Query().Get("frm"))
		requests = append(requests, frm)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, searchBody(pages[frm]))
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL, PageSize: pageSize})
	complaints, err := client.FetchWindow(context.Background(), "alpha bank", testWindow(t))
	if err != nil {
		t.Fatalf("FetchWindow returned error: %v", err)
	}

	if len(complaints) != 5 {
		t.Errorf("got %d complaints, want 5", len(complaints))
	}
	if len(requests) != 3 {
		t.Errorf("made %d requests, want 3", len(requests))
	}
	if requests[0] != 0 || requests[1] != 2 || requests[2] != 4 {
		t.Errorf("frm sequence = %v, want [0 2 4]", requests)
	}
}

func TestClientFetchWindowEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, searchBody(nil))
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL, PageSize: 100})
	complaints, err := client.FetchWindow(context.Background(), "alpha bank", testWindow(t))
	if err != nil {
		t.Fatalf("FetchWindow returned error: %v", err)
	}
	if len(complaints) != 0 {
		t.Errorf("got %d complaints, want 0", len(complaints))
	}
}

func TestClientFetchWindowServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL, PageSize: 100})
	_, err := client.FetchWindow(context.Background(), "alpha bank", testWindow(t))
	if err == nil {
		t.Fatal("expected error on 502 response")
	}
}
