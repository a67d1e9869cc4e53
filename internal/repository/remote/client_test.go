package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"churchmap/internal/domain/entities"
	"churchmap/internal/listing"
	"churchmap/internal/repository"
)

var _ repository.ChurchSource = (*Client)(nil)

func TestClient_ListSendsQuery(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[{"id":"1","name":"Duc Ba"}],"total":1,"totalPages":1}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "", time.Second)
	page, err := client.List(context.Background(), listing.Options{
		Page:       2,
		Limit:      5,
		SearchTerm: "duc",
		SortKey:    entities.SortByName,
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	q := got.URL.Query()
	if got.URL.Path != "/" || q.Get("page") != "2" || q.Get("limit") != "5" || q.Get("searchTerm") != "duc" {
		t.Errorf("Unexpected request %s", got.URL.String())
	}
	if q.Get("sortKey") != "name" || q.Get("sortDirection") != "ascending" {
		t.Errorf("Expected sort parameters, got %s", got.URL.RawQuery)
	}
	if page.Total != 1 || len(page.Data) != 1 || page.Data[0].Name != "Duc Ba" {
		t.Errorf("Unexpected page %+v", page)
	}
}

func TestClient_CreateOmitsIdentity(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/" {
			t.Errorf("Unexpected %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"real_1","name":"Ba Chuong"}`)
	}))
	defer srv.Close()

	created, err := NewClient(srv.URL, "", time.Second).Create(context.Background(), entities.Church{ID: "new", Name: "Ba Chuong"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, ok := body["id"]; ok {
		t.Error("Expected the request body to carry no id")
	}
	if created.ID != "real_1" {
		t.Errorf("Expected real_1, got %s", created.ID)
	}
}

func TestClient_NotFoundOnWrites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"Church not found"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	ctx := context.Background()

	if _, err := client.Update(ctx, "x", entities.Church{ID: "x"}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Update: expected ErrNotFound, got %v", err)
	}
	if err := client.Delete(ctx, "x"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
	if _, err := client.ListAll(ctx); !errors.Is(err, repository.ErrNetworkUnavailable) {
		t.Errorf("ListAll: expected a 404 on a read to count as unavailable, got %v", err)
	}
}

func TestClient_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second).BulkCreate(context.Background(), []entities.Church{{Name: "A"}})
	if !errors.Is(err, repository.ErrNetworkUnavailable) {
		t.Errorf("Expected ErrNetworkUnavailable, got %v", err)
	}
}

func TestClient_UnreachableIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewClient(addr, "", time.Second).ListAll(context.Background())
	if !errors.Is(err, repository.ErrNetworkUnavailable) {
		t.Errorf("Expected ErrNetworkUnavailable, got %v", err)
	}
}

func TestClient_SendsBearerToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL, "s3cret", time.Second).Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if auth != "Bearer s3cret" {
		t.Errorf("Expected bearer token header, got %q", auth)
	}
}
