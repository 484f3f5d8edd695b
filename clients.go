package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/FitGenius/FitGenius-sub002/internal/nutrition"
)

// clientID parses the :id path param. Writes a 400 and returns ok=false when
// it is not a positive integer.
func clientID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		apiError(c, http.StatusBadRequest, "invalid client id")
		return 0, false
	}
	return id, true
}

// loadClient fetches a client owned by the authenticated trainer. Writes a
// 404/500 and returns ok=false on failure.
func (h *Handler) loadClient(c *gin.Context, id int) (client, bool) {
	cl, err := queryOne[client](h, c,
		"SELECT * FROM clients WHERE id = @id AND trainer_id = @trainerID",
		pgx.NamedArgs{"id": id, "trainerID": c.GetInt("trainer_id")})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "client not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch client")
		}
		return client{}, false
	}
	return cl, true
}

// normalizeProfileEnums validates and canonicalizes the enum-valued profile
// fields in place. Returns a client-facing message on failure.
func normalizeProfileEnums(sex, activityLevel, goal, macroPreset, dateOfBirth *string) (string, bool) {
	if sex != nil {
		v, err := nutrition.ParseSex(*sex)
		if err != nil {
			return "sex must be one of: MALE, FEMALE", false
		}
		*sex = string(v)
	}
	if activityLevel != nil {
		v, err := nutrition.ParseActivityLevel(*activityLevel)
		if err != nil {
			return "activity_level must be one of: SEDENTARY, LIGHT, MODERATE, ACTIVE, VERY_ACTIVE", false
		}
		*activityLevel = string(v)
	}
	if goal != nil {
		v, err := nutrition.ParseGoal(*goal)
		if err != nil {
			return "goal must be one of: WEIGHT_LOSS, FAT_LOSS, MAINTENANCE, WEIGHT_GAIN, MUSCLE_GAIN", false
		}
		*goal = string(v)
	}
	// Stored presets must be real; only ad-hoc calculations fall back silently.
	if macroPreset != nil {
		if !nutrition.IsPreset(*macroPreset) {
			return "macro_preset must be one of: " + strings.Join(nutrition.PresetNames(), ", "), false
		}
		*macroPreset, _ = nutrition.LookupPreset(*macroPreset)
	}
	if dateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *dateOfBirth)
		if err != nil {
			return "invalid date_of_birth, expected YYYY-MM-DD", false
		}
		if dob.After(time.Now()) {
			return "date_of_birth must be in the past", false
		}
	}
	return "", true
}

// listClients returns the authenticated trainer's clients ordered by name.
// GET /api/clients.
func (h *Handler) listClients(c *gin.Context) {
	clients, err := queryMany[client](h, c,
		"SELECT * FROM clients WHERE trainer_id = @trainerID ORDER BY name",
		pgx.NamedArgs{"trainerID": c.GetInt("trainer_id")})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch clients")
		return
	}
	if clients == nil {
		clients = []client{}
	}
	c.JSON(http.StatusOK, clients)
}

// createClient inserts a client for the authenticated trainer.
// POST /api/clients.
func (h *Handler) createClient(c *gin.Context) {
	var body createClientRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if msg, ok := normalizeProfileEnums(body.Sex, body.ActivityLevel, body.Goal, body.MacroPreset, body.DateOfBirth); !ok {
		apiError(c, http.StatusBadRequest, msg)
		return
	}

	cl, err := queryOne[client](h, c,
		`INSERT INTO clients (trainer_id, name, email, sex, date_of_birth, height_cm, weight_kg,
		                      activity_level, goal, macro_preset, notes)
		 VALUES (@trainerID, @name, @email, @sex, @dateOfBirth, @heightCM, @weightKG,
		         @activityLevel, @goal, @macroPreset, @notes)
		 RETURNING *`,
		pgx.NamedArgs{
			"trainerID": c.GetInt("trainer_id"), "name": body.Name, "email": body.Email,
			"sex": body.Sex, "dateOfBirth": body.DateOfBirth, "heightCM": body.HeightCM,
			"weightKG": body.WeightKG, "activityLevel": body.ActivityLevel, "goal": body.Goal,
			"macroPreset": body.MacroPreset, "notes": body.Notes,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create client")
		return
	}

	c.JSON(http.StatusCreated, cl)
}

// getClient returns one client. GET /api/clients/:id.
func (h *Handler) getClient(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}
	cl, ok := h.loadClient(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cl)
}

// patchClient updates only the provided profile fields.
// PATCH /api/clients/:id. Pointer fields distinguish "not provided" from zero.
func (h *Handler) patchClient(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	var body patchClientRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}
	if msg, ok := normalizeProfileEnums(body.Sex, body.ActivityLevel, body.Goal, body.MacroPreset, body.DateOfBirth); !ok {
		apiError(c, http.StatusBadRequest, msg)
		return
	}

	// Build SET clause dynamically: only update fields the client actually sent.
	setClauses := []string{}
	args := pgx.NamedArgs{"id": id, "trainerID": c.GetInt("trainer_id")}
	set := func(column, arg string, value any) {
		setClauses = append(setClauses, column+" = @"+arg)
		args[arg] = value
	}

	if body.Name != nil {
		set("name", "name", strings.TrimSpace(*body.Name))
	}
	if body.Email != nil {
		set("email", "email", *body.Email)
	}
	if body.Sex != nil {
		set("sex", "sex", *body.Sex)
	}
	if body.DateOfBirth != nil {
		set("date_of_birth", "dateOfBirth", *body.DateOfBirth)
	}
	if body.HeightCM != nil {
		set("height_cm", "heightCM", *body.HeightCM)
	}
	if body.WeightKG != nil {
		set("weight_kg", "weightKG", *body.WeightKG)
	}
	if body.ActivityLevel != nil {
		set("activity_level", "activityLevel", *body.ActivityLevel)
	}
	if body.Goal != nil {
		set("goal", "goal", *body.Goal)
	}
	if body.MacroPreset != nil {
		set("macro_preset", "macroPreset", *body.MacroPreset)
	}
	if body.Notes != nil {
		set("notes", "notes", *body.Notes)
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE clients SET " +
		strings.Join(setClauses, ", ") +
		", updated_at = now() WHERE id = @id AND trainer_id = @trainerID RETURNING *"

	cl, err := queryOne[client](h, c, query, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "client not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update client")
		}
		return
	}

	c.JSON(http.StatusOK, cl)
}

// deleteClient removes a client and, via ON DELETE CASCADE, their plans and logs.
// DELETE /api/clients/:id. Returns 204 on success.
func (h *Handler) deleteClient(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM clients WHERE id = @id AND trainer_id = @trainerID",
		pgx.NamedArgs{"id": id, "trainerID": c.GetInt("trainer_id")})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete client")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "client not found")
		return
	}

	c.Status(http.StatusNoContent)
}
