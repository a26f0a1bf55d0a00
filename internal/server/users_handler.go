package server

import (
	"net/http"
	"time"

	accountrepo "admin-console/api/internal/account/repository"
)

// accountRow is the listing projection; password hashes stay server-side.
type accountRow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Timezone  string    `json:"timezone"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserRole  string    `json:"user_role"`
	CreatedAt time.Time `json:"created_at"`
}

var userSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"email":      true,
	"status":     true,
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	p := parsePageParams(r.URL.Query(), userSortFields)

	rows, total, err := s.accounts.ListWithUsers(r.Context(), accountrepo.ListParams{
		Limit:     p.PageSize,
		Offset:    p.PageIndex * p.PageSize,
		SortField: p.SortField,
		SortDesc:  p.SortDesc,
		Filter:    p.Filter,
	})
	if err != nil {
		respondInternal(w, err)
		return
	}

	data := make([]accountRow, 0, len(rows))
	for _, aw := range rows {
		data = append(data, accountRow{
			ID:        aw.Account.ID,
			Name:      aw.Account.Name,
			Email:     aw.Account.Email,
			Role:      string(aw.Account.Role),
			Status:    string(aw.Account.Status),
			Timezone:  aw.Account.Timezone,
			UserID:    aw.User.ID,
			UserName:  aw.User.Name,
			UserRole:  string(aw.User.Role),
			CreatedAt: aw.Account.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data": data,
		"pagination": pagination{
			PageIndex:  p.PageIndex,
			PageSize:   p.PageSize,
			TotalPages: totalPages(total, p.PageSize),
			TotalItems: total,
		},
	})
}
