// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newMethodCheckRouter() *chi.Mux {
	router := chi.NewRouter()
	router.Get("/api/vault/profile", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Post("/api/ledger/records", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	router.MethodNotAllowed(CheckHTTPMethod(router))
	return router
}

func TestCheckHTTPMethod(t *testing.T) {
	router := newMethodCheckRouter()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"registered method passes", http.MethodGet, "/api/vault/profile", http.StatusOK},
		{"other registered method passes", http.MethodPost, "/api/ledger/records", http.StatusCreated},
		{"wrong method hidden as 404", http.MethodDelete, "/api/vault/profile", http.StatusNotFound},
		{"wrong method on post route hidden as 404", http.MethodPut, "/api/ledger/records", http.StatusNotFound},
		{"unknown path stays 404", http.MethodGet, "/api/nothing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

// A 405 must never leak which methods a route supports.
func TestCheckHTTPMethod_NoAllowHeader(t *testing.T) {
	router := newMethodCheckRouter()

	req := httptest.NewRequest(http.MethodDelete, "/api/vault/profile", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Allow"))
}
