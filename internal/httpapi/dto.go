package httpapi

// routeRequest is the JSON body accepted by POST /api/v1/route, and the
// struct the query-string form of GET /api/v1/route is parsed into. Only the
// POST body is run through the validator.
type routeRequest struct {
	Source uint32 `json:"source" validate:"gte=0"`
	Target uint32 `json:"target" validate:"gte=0"`
}

type routeStats struct {
	ComputeUs     float64 `json:"compute_us"`
	ExpandedNodes uint32  `json:"expanded_nodes"`
}

type routeResponse struct {
	Src       uint32     `json:"src"`
	Dst       uint32     `json:"dst"`
	Distance  float32    `json:"distance"`
	EtaMs     int        `json:"eta_ms"`
	Path      []uint32   `json:"path"`
	Reachable bool       `json:"reachable"`
	Stats     routeStats `json:"stats"`
}

// congestionUpdateRequest is the JSON body accepted by
// POST /api/v1/congestion/update.
type congestionUpdateRequest struct {
	EdgeStart int     `json:"edge_start" validate:"gte=0"`
	EdgeEnd   int     `json:"edge_end" validate:"gte=0"`
	Factor    float32 `json:"factor" validate:"required"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type metricsResponse struct {
	QueriesTotal       uint64  `json:"queries_total"`
	UpdatesTotal       uint64  `json:"updates_total"`
	ComputeTimeTotalUs float64 `json:"compute_time_total_us"`
	ComputeTimeMaxUs   float64 `json:"compute_time_max_us"`
	ComputeTimeAvgUs   float64 `json:"compute_time_avg_us"`
}
