package httpadapter

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ctv-ads/internal/core/domain"
	"ctv-ads/internal/core/port"
)

// handleStatsOverview returns impressions summed over a period. It accepts
// optional `from`, `to` (RFC3339 timestamps) and `campaign_id` query
// parameters. If no period is provided, it defaults to the last 24 hours.
// Invalid parameters result in HTTP 400.
func (h *Handler) handleStatsOverview(w http.ResponseWriter, r *http.Request) {
	req, msg := parseStatsReq(r.URL.Query(), time.Now())
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	stats, err := h.stats.GetStats(r.Context(), req)
	if err != nil {
		h.logger.Error("stats error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// handleStatsDaily returns the per-day rollup rows for the same filters.
func (h *Handler) handleStatsDaily(w http.ResponseWriter, r *http.Request) {
	req, msg := parseStatsReq(r.URL.Query(), time.Now())
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	rows, err := h.stats.GetDailyStats(r.Context(), req)
	if err != nil {
		h.logger.Error("daily stats error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []domain.DailyRollup{}
	}
	h.writeJSON(w, http.StatusOK, rows)
}

// parseStatsReq returns a non-empty message when a parameter is invalid.
func parseStatsReq(q url.Values, now time.Time) (port.StatsReq, string) {
	var (
		req port.StatsReq
		err error
	)
	if s := q.Get("from"); s != "" {
		req.From, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return req, "invalid 'from' timestamp"
		}
	} else {
		req.From = now.Add(-24 * time.Hour)
	}

	if s := q.Get("to"); s != "" {
		req.To, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return req, "invalid 'to' timestamp"
		}
	} else {
		req.To = now
	}

	if req.To.Before(req.From) {
		return req, "'to' is before 'from'"
	}

	if cid := q.Get("campaign_id"); cid != "" {
		id, err := strconv.ParseInt(cid, 10, 64)
		if err != nil {
			return req, "invalid campaign_id"
		}
		req.CampaignID = &id
	}
	return req, ""
}
