package http

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/synergy-credit/scorenorm/internal/auth/middleware"
	"github.com/synergy-credit/scorenorm/internal/calibration"
	"github.com/synergy-credit/scorenorm/internal/normalize"
	"github.com/synergy-credit/scorenorm/internal/storage"
)

const maxAnchorDocument = 1 << 20

type anchorSetView struct {
	calibration.Record
	Anchors [][2]float64 `json:"anchors"`
}

func viewOf(rec calibration.Record) anchorSetView {
	return anchorSetView{Record: rec, Anchors: rec.Payload().Set.Pairs()}
}

func pairParam(r *http.Request) calibration.Selection {
	return calibration.Selection{Origin: chi.URLParam(r, "origin"), Dest: chi.URLParam(r, "dest")}
}

// GET /api/anchors
func ListAnchorsHandler(svc *calibration.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := svc.List(r.Context())
		if err != nil {
			fail(w, r, err)
			return
		}
		out := make([]anchorSetView, 0, len(recs))
		for _, rec := range recs {
			out = append(out, viewOf(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// PUT /api/anchors/{origin}/{dest} with any accepted anchor document shape.
func PutAnchorsHandler(svc *calibration.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAnchorDocument))
		if err != nil {
			writeError(w, http.StatusBadRequest, "body too large")
			return
		}
		p, err := normalize.Decode(raw)
		if err != nil {
			fail(w, r, err)
			return
		}
		rec, err := svc.Save(r.Context(), pairParam(r), p, authmw.SubjectFromContext(r.Context()))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(rec))
	}
}

// POST /api/anchors/{origin}/{dest}/import (multipart field "file").
// The upload is archived verbatim before it is decoded.
func ImportAnchorsHandler(svc *calibration.Service, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sel, err := svc.Complete(pairParam(r))
		if err != nil {
			fail(w, r, err)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, 2*maxAnchorDocument)
		f, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file required")
			return
		}
		defer f.Close()
		raw, err := io.ReadAll(io.LimitReader(f, maxAnchorDocument+1))
		if err != nil || len(raw) > maxAnchorDocument {
			writeError(w, http.StatusBadRequest, "file too large")
			return
		}

		key, err := bs.Put(storage.DocumentKey(sel.Origin, sel.Dest), bytes.NewReader(raw))
		if err != nil {
			fail(w, r, err)
			return
		}
		p, err := normalize.Decode(raw)
		if err != nil {
			fail(w, r, err)
			return
		}
		rec, err := svc.Import(r.Context(), sel, p, authmw.SubjectFromContext(r.Context()), key)
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"document": key, "anchorSet": viewOf(rec)})
	}
}

// GET /api/anchors/{origin}/{dest}/documents
func ListDocumentsHandler(svc *calibration.Service, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sel, err := svc.Complete(pairParam(r))
		if err != nil {
			fail(w, r, err)
			return
		}
		keys, err := bs.List("anchors/" + sel.Key())
		if err != nil {
			fail(w, r, err)
			return
		}
		if keys == nil {
			keys = []string{}
		}
		writeJSON(w, http.StatusOK, keys)
	}
}

// GET /api/documents/*
func GetDocumentHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(key)
		if err != nil {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.Copy(w, rc)
	}
}

// DELETE /api/anchors/{origin}/{dest}
func DeleteAnchorsHandler(svc *calibration.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Remove(r.Context(), pairParam(r), authmw.SubjectFromContext(r.Context())); err != nil {
			fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
