package persist

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/trackmap/pkg/errors"
	"github.com/matzehuels/trackmap/pkg/payload"
)

func newTestRemote(t *testing.T, h http.HandlerFunc) *HTTPRemote {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	r, err := NewHTTPRemote(srv.URL+"/", WithHTTPClient(srv.Client()), WithRetry(3, time.Millisecond), WithToken("secret"))
	if err != nil {
		t.Fatalf("NewHTTPRemote: %v", err)
	}
	return r
}

func TestHTTPRemoteLoadWrappedShape(t *testing.T) {
	r := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/api/projects/7/fields/12" {
			t.Errorf("path = %s", req.URL.Path)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		io.WriteString(w, `{"mapa": [{"id": 1, "rows": []}], "campo": {"map_texts": {"a": {"id": "a", "text": "gate"}}}}`)
	})

	doc, err := r.Load(context.Background(), Key{ProjectID: "7", FieldID: "12"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Groups) != 1 || len(doc.TextElements) != 1 {
		t.Errorf("doc = %+v", doc.Counts())
	}
}

func TestHTTPRemoteRetriesServerErrors(t *testing.T) {
	calls := 0
	r := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `{"groups": []}`)
	})

	if _, err := r.Load(context.Background(), Key{ProjectID: "7", FieldID: "12"}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestHTTPRemoteErrors(t *testing.T) {
	tests := []struct {
		status int
		body   string
		code   errors.Code
		msg    string
	}{
		{http.StatusNotFound, `{"code":"FIELD_NOT_FOUND","error":"field 7/12 not found"}`, errors.ErrCodeFieldNotFound, "field 7/12 not found"},
		{http.StatusBadRequest, `{"error":"bad shape"}`, errors.ErrCodeInvalidInput, "bad shape"},
		{http.StatusUnauthorized, ``, errors.ErrCodeUnauthorized, "Unauthorized"},
		{http.StatusBadGateway, ``, errors.ErrCodeNetwork, "status 502: Bad Gateway"},
		{http.StatusTooManyRequests, `{"error":"slow down"}`, errors.ErrCodeRateLimited, "rate limited: slow down"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			r := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := r.Load(context.Background(), Key{ProjectID: "7", FieldID: "12"})
			if !errors.Is(err, tt.code) {
				t.Fatalf("Load() = %v, want %s", err, tt.code)
			}
			if got := errors.UserMessage(err); got != tt.msg {
				t.Errorf("UserMessage = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestHTTPRemoteSave(t *testing.T) {
	var method, path string
	r := newTestRemote(t, func(w http.ResponseWriter, req *http.Request) {
		method, path = req.Method, req.URL.Path
		var doc payload.Document
		if err := json.NewDecoder(req.Body).Decode(&doc); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(Receipt{FieldID: "99", IDs: IDMap{KindTracker: {"a": 1}}})
	})

	rec, err := r.Save(context.Background(), Key{ProjectID: "7"}, payload.Document{Loose: []payload.LooseTracker{{ID: "a"}}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if method != http.MethodPost || path != "/api/projects/7/fields" {
		t.Errorf("request = %s %s, want POST to the collection", method, path)
	}
	if n, _ := rec.IDs.Get(KindTracker, "a"); rec.FieldID != "99" || n != 1 {
		t.Errorf("receipt = %+v", rec)
	}

	r.Save(context.Background(), Key{ProjectID: "7", FieldID: "99"}, payload.Document{})
	if method != http.MethodPut || path != "/api/projects/7/fields/99" {
		t.Errorf("request = %s %s, want PUT to the field", method, path)
	}
}

func TestNewHTTPRemoteValidatesURL(t *testing.T) {
	if _, err := NewHTTPRemote("ftp://example.com"); err == nil {
		t.Error("NewHTTPRemote should reject non-http schemes")
	}
}
