package http

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/synergy-credit/scorenorm/internal/users"
)

// POST /users/bulk. Accepts a JSON array body, or a multipart "file"
// holding either JSON or CSV with id,username,role[,password] columns.
func BulkUpsertUsersHandler(dir *users.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rows []users.User
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			f, _, err := r.FormFile("file")
			if err != nil {
				writeError(w, http.StatusBadRequest, "file required")
				return
			}
			defer f.Close()
			raw, err := io.ReadAll(io.LimitReader(f, 4<<20))
			if err != nil {
				writeError(w, http.StatusBadRequest, "unreadable file")
				return
			}
			trimmed := strings.TrimSpace(string(raw))
			if strings.HasPrefix(trimmed, "[") {
				if err := json.Unmarshal(raw, &rows); err != nil {
					writeError(w, http.StatusBadRequest, "bad json")
					return
				}
			} else if rows, err = parseUsersCSV(strings.NewReader(trimmed)); err != nil {
				writeError(w, http.StatusBadRequest, "bad csv: "+err.Error())
				return
			}
		} else if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
			writeError(w, http.StatusBadRequest, "expected JSON array or multipart file")
			return
		}
		if len(rows) == 0 {
			writeJSON(w, http.StatusOK, map[string]int{"inserted": 0, "updated": 0})
			return
		}

		ins, upd, err := dir.Upsert(r.Context(), rows)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"inserted": ins, "updated": upd})
	}
}

// GET /users?role=analyst
func ListUsersHandler(dir *users.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := dir.List(r.Context(), r.URL.Query().Get("role"))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func parseUsersCSV(r io.Reader) ([]users.User, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	hdr, err := cr.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, k := range []string{"username", "role"} {
		if _, ok := idx[k]; !ok {
			return nil, errors.New("missing column: " + k)
		}
	}
	var rows []users.User
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		u := users.User{
			Username: rec[idx["username"]],
			Role:     strings.ToLower(rec[idx["role"]]),
		}
		if i, ok := idx["id"]; ok {
			u.ID = rec[i]
		}
		if i, ok := idx["password"]; ok {
			u.Password = rec[i]
		}
		rows = append(rows, u)
	}
	return rows, nil
}
