package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"

	"github.com/georoute/georoute/internal/graph"
)

func (a *API) health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a.writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// validationError renders a failed validator.Struct call as a translated
// list of per-field messages rather than a single opaque error string.
func (a *API) validationError(w http.ResponseWriter, err error) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(a.validate, trans)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		a.badRequest(w, err)
		return
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fe.Translate(trans))
	}
	a.badRequest(w, fmt.Errorf("validation error: %v", messages))
}

func (a *API) routeFromQuery(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	src, err := strconv.ParseUint(query.Get("src"), 10, 32)
	if err != nil {
		a.badRequest(w, errors.New("src is required and must be a non-negative integer"))
		return
	}
	dst, err := strconv.ParseUint(query.Get("dst"), 10, 32)
	if err != nil {
		a.badRequest(w, errors.New("dst is required and must be a non-negative integer"))
		return
	}

	a.serveRoute(w, routeRequest{Source: uint32(src), Target: uint32(dst)})
}

func (a *API) routeFromBody(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.badRequest(w, err)
		return
	}
	defer r.Body.Close()

	if err := a.validate.Struct(req); err != nil {
		a.validationError(w, err)
		return
	}

	a.serveRoute(w, req)
}

func (a *API) serveRoute(w http.ResponseWriter, req routeRequest) {
	comp, expanded, computeUs, _, err := a.engine.Route(graph.NodeID(req.Source), graph.NodeID(req.Target))
	if err != nil {
		a.respondError(w, err)
		return
	}

	path := make([]uint32, len(comp.Result.Nodes))
	for i, n := range comp.Result.Nodes {
		path[i] = uint32(n)
	}

	a.writeJSON(w, http.StatusOK, routeResponse{
		Src:       req.Source,
		Dst:       req.Target,
		Distance:  comp.Result.TotalTravelTime,
		EtaMs:     int(comp.Result.TotalTravelTime * 1000),
		Path:      path,
		Reachable: comp.Result.Reachable,
		Stats: routeStats{
			ComputeUs:     computeUs,
			ExpandedNodes: expanded,
		},
	})
}

func (a *API) updateCongestion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req congestionUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.badRequest(w, err)
		return
	}
	defer r.Body.Close()

	if err := a.validate.Struct(req); err != nil {
		a.validationError(w, err)
		return
	}

	if err := a.engine.ApplyCongestionUpdate(req.EdgeStart, req.EdgeEnd, req.Factor); err != nil {
		a.respondError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (a *API) metrics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats := a.engine.Stats()

	var avg float64
	if stats.TotalQueries > 0 {
		avg = stats.TotalComputeTimeUs / float64(stats.TotalQueries)
	}

	a.writeJSON(w, http.StatusOK, metricsResponse{
		QueriesTotal:       stats.TotalQueries,
		UpdatesTotal:       stats.TotalUpdates,
		ComputeTimeTotalUs: stats.TotalComputeTimeUs,
		ComputeTimeMaxUs:   stats.MaxComputeTimeUs,
		ComputeTimeAvgUs:   avg,
	})
}
