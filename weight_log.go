package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// maxWeightKG bounds accepted weigh-ins; anything above is a typo.
const maxWeightKG = 650

// getWeightLog returns a client's weight entries within [start, end].
// GET /api/clients/:id/weight-log?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
// Returns an empty array (not null) if no entries exist in the range.
func (h *Handler) getWeightLog(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}
	start := c.Query("start")
	end := c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}
	if _, ok := h.loadClient(c, id); !ok {
		return
	}

	entries, err := queryMany[weightEntry](h, c,
		`SELECT * FROM weight_log
		 WHERE client_id = @clientID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"clientID": id, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}
	// Ensure empty array (not null) in JSON
	if entries == nil {
		entries = []weightEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// upsertWeightEntry creates or updates the weight entry for the given date.
// POST /api/clients/:id/weight-log. Body: { "date": "YYYY-MM-DD", "weight_kg": 82.4 }.
// The UNIQUE(client_id, date) constraint means posting the same date updates in place.
// When the entry is the client's most recent, the profile weight follows it so
// the next nutrition plan uses the current weight.
func (h *Handler) upsertWeightEntry(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	var body struct {
		Date     string  `json:"date"`
		WeightKG float64 `json:"weight_kg"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if body.WeightKG <= 0 || body.WeightKG > maxWeightKG {
		apiError(c, http.StatusBadRequest, "weight_kg must be between 0 and "+strconv.Itoa(maxWeightKG))
		return
	}
	if _, ok := h.loadClient(c, id); !ok {
		return
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}
	defer tx.Rollback(c)

	rows, err := tx.Query(c,
		`INSERT INTO weight_log (client_id, date, weight_kg)
		 VALUES (@clientID, @date, @weightKG)
		 ON CONFLICT (client_id, date) DO UPDATE SET weight_kg = EXCLUDED.weight_kg
		 RETURNING *`,
		pgx.NamedArgs{"clientID": id, "date": body.Date, "weightKG": body.WeightKG})
	if err != nil {
		h.logger("upsertWeightEntry").WithError(err).Error("insert failed")
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}
	entry, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[weightEntry])
	if err != nil {
		h.logger("upsertWeightEntry").WithError(err).Error("scan failed")
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}

	if _, err := tx.Exec(c,
		`UPDATE clients SET weight_kg = @weightKG, updated_at = now()
		 WHERE id = @clientID
		   AND @date::date >= (SELECT MAX(date) FROM weight_log WHERE client_id = @clientID)`,
		pgx.NamedArgs{"clientID": id, "date": body.Date, "weightKG": body.WeightKG}); err != nil {
		h.logger("upsertWeightEntry").WithError(err).Error("profile weight update failed")
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}

	if err := tx.Commit(c); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// deleteWeightEntry removes a weight log entry by ID.
// DELETE /api/clients/:id/weight-log/:entryId. Returns 204 on success, 404 if not found.
// Ownership is enforced by joining through the client's trainer.
func (h *Handler) deleteWeightEntry(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}
	entryID, err := strconv.Atoi(c.Param("entryId"))
	if err != nil || entryID <= 0 {
		apiError(c, http.StatusBadRequest, "invalid entry id")
		return
	}

	result, err := h.db.Exec(c,
		`DELETE FROM weight_log w USING clients cl
		 WHERE w.id = @entryID AND w.client_id = @clientID
		   AND cl.id = w.client_id AND cl.trainer_id = @trainerID`,
		pgx.NamedArgs{"entryID": entryID, "clientID": id, "trainerID": c.GetInt("trainer_id")})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete weight entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "weight entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
