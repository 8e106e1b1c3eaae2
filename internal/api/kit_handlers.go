package api

import (
	"net/http"

	"github.com/flickit-platform/assessment-api/internal/models"
	"github.com/flickit-platform/assessment-api/internal/projection"
)

func (s *Server) handleListKits(w http.ResponseWriter, r *http.Request) {
	page, ok := pagination(w, r)
	if !ok {
		return
	}

	kits, err := s.repo.ListKits(r.Context(), models.KitListFilters{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		respondFailure(w, err, "assessment kits")
		return
	}

	views := make([]*projection.KitListResponse, 0, len(kits))
	for _, kit := range kits {
		view, err := s.projector.KitList(r.Context(), kit)
		if err != nil {
			respondFailure(w, err, "assessment kits")
			return
		}
		views = append(views, view)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"kits":   views,
		"total":  len(views),
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

// loadKit resolves the {id} parameter to a kit, writing the error response
// when it cannot.
func (s *Server) loadKit(w http.ResponseWriter, r *http.Request) (*models.AssessmentKit, bool) {
	id, ok := pathID(w, r, "assessment kit")
	if !ok {
		return nil, false
	}

	kit, err := s.repo.GetKit(r.Context(), id)
	if err != nil {
		respondFailure(w, err, "assessment kit")
		return nil, false
	}
	return kit, true
}

func (s *Server) viewContext(r *http.Request) projection.ViewContext {
	return projection.ViewContext{CurrentUserID: UserIDFromContext(r.Context())}
}

func (s *Server) handleGetKit(w http.ResponseWriter, r *http.Request) {
	kit, ok := s.loadKit(w, r)
	if !ok {
		return
	}

	view, err := s.projector.KitDetail(r.Context(), kit, s.viewContext(r))
	if err != nil {
		respondFailure(w, err, "assessment kit")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleKitEditableInfo(w http.ResponseWriter, r *http.Request) {
	kit, ok := s.loadKit(w, r)
	if !ok {
		return
	}

	view, err := s.projector.KitEditableInfo(r.Context(), kit, s.viewContext(r))
	if err != nil {
		respondFailure(w, err, "assessment kit info")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleKitStatistics(w http.ResponseWriter, r *http.Request) {
	kit, ok := s.loadKit(w, r)
	if !ok {
		return
	}

	view, err := s.projector.KitStatistics(r.Context(), kit)
	if err != nil {
		respondFailure(w, err, "assessment kit statistics")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleKitReportDetail(w http.ResponseWriter, r *http.Request) {
	kit, ok := s.loadKit(w, r)
	if !ok {
		return
	}

	view, err := s.projector.KitReportDetail(r.Context(), kit)
	if err != nil {
		respondFailure(w, err, "assessment kit report info")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleKitFullDetail(w http.ResponseWriter, r *http.Request) {
	kit, ok := s.loadKit(w, r)
	if !ok {
		return
	}

	view, err := s.projector.KitFullDetail(r.Context(), kit)
	if err != nil {
		respondFailure(w, err, "assessment kit details")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleKitMaturityLevels(w http.ResponseWriter, r *http.Request) {
	kit, ok := s.loadKit(w, r)
	if !ok {
		return
	}

	levels, err := s.projector.KitMaturityLevels(r.Context(), kit)
	if err != nil {
		respondFailure(w, err, "maturity levels")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"maturity_levels": levels,
	})
}

func (s *Server) handleListExpertGroupKits(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "expert group")
	if !ok {
		return
	}

	page, ok := pagination(w, r)
	if !ok {
		return
	}

	if _, err := s.repo.GetExpertGroup(r.Context(), id); err != nil {
		respondFailure(w, err, "expert group")
		return
	}

	kits, err := s.repo.ListKits(r.Context(), models.KitListFilters{ExpertGroupID: id, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		respondFailure(w, err, "assessment kits")
		return
	}

	views := make([]projection.KitForExpertGroupResponse, 0, len(kits))
	for _, kit := range kits {
		views = append(views, projection.KitForExpertGroup(kit))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"kits":   views,
		"total":  len(views),
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}
