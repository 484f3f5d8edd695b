package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly. NULL zeroes the time so *DateOnly fields end up nil.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// trainer maps to the trainers table. AuthToken and Password are hidden from JSON.
type trainer struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// client maps to the clients table. Each row belongs to one trainer; profile
// fields are nullable so a client can be created before onboarding.
type client struct {
	ID            int        `json:"id"             db:"id"`
	TrainerID     int        `json:"trainer_id"     db:"trainer_id"`
	Name          string     `json:"name"           db:"name"`
	Email         *string    `json:"email"          db:"email"`
	Sex           *string    `json:"sex"            db:"sex"`
	DateOfBirth   *DateOnly  `json:"date_of_birth"  db:"date_of_birth"`
	HeightCM      *float64   `json:"height_cm"      db:"height_cm"`
	WeightKG      *float64   `json:"weight_kg"      db:"weight_kg"`
	ActivityLevel *string    `json:"activity_level" db:"activity_level"`
	Goal          *string    `json:"goal"           db:"goal"`
	MacroPreset   *string    `json:"macro_preset"   db:"macro_preset"`
	Notes         *string    `json:"notes"          db:"notes"`
	CreatedAt     *time.Time `json:"created_at"     db:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"     db:"updated_at"`
}

// nutritionPlan maps to nutrition_plans: one saved calculator result for a client.
type nutritionPlan struct {
	ID              int        `json:"id"                   db:"id"`
	ClientID        int        `json:"client_id"            db:"client_id"`
	Goal            string     `json:"goal"                 db:"goal"`
	ActivityLevel   string     `json:"activity_level"       db:"activity_level"`
	MacroPreset     string     `json:"macro_preset"         db:"macro_preset"`
	CarbRatio       float64    `json:"carb_ratio"           db:"carb_ratio"`
	ProteinRatio    float64    `json:"protein_ratio"        db:"protein_ratio"`
	FatRatio        float64    `json:"fat_ratio"            db:"fat_ratio"`
	BMR             int        `json:"bmr"                  db:"bmr"`
	TDEE            int        `json:"tdee"                 db:"tdee"`
	CalorieNeeds    int        `json:"calorie_needs"        db:"calorie_needs"`
	CarbsG          int        `json:"carbs_g"              db:"carbs_g"`
	ProteinG        int        `json:"protein_g"            db:"protein_g"`
	FatG            int        `json:"fat_g"                db:"fat_g"`
	WaterML         int        `json:"water_ml"             db:"water_ml"`
	BMI             float64    `json:"bmi"                  db:"bmi"`
	BMIStatus       string     `json:"bmi_status"           db:"bmi_status"`
	EstimatedWeeks  *int       `json:"estimated_time_weeks" db:"estimated_weeks"`
	Recommendations []string   `json:"recommendations"      db:"recommendations"`
	CreatedAt       *time.Time `json:"created_at"           db:"created_at"`
}

// foodLogItem maps to food_log_items. Nullable numeric fields use pointers
// so pgx can scan NULLs and JSON omits them naturally.
type foodLogItem struct {
	ID        int        `json:"id" db:"id"`
	ClientID  int        `json:"client_id" db:"client_id"`
	Date      DateOnly   `json:"date" db:"date"`
	ItemName  string     `json:"item_name" db:"item_name"`
	Meal      string     `json:"meal" db:"meal"`
	Qty       *float64   `json:"qty" db:"qty"`
	Uom       *string    `json:"uom" db:"uom"`
	Calories  int        `json:"calories" db:"calories"`
	ProteinG  *float64   `json:"protein_g" db:"protein_g"`
	CarbsG    *float64   `json:"carbs_g" db:"carbs_g"`
	FatG      *float64   `json:"fat_g" db:"fat_g"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// weightEntry maps to weight_log. One row per (client_id, date).
type weightEntry struct {
	ID        int        `json:"id" db:"id"`
	ClientID  int        `json:"client_id" db:"client_id"`
	Date      DateOnly   `json:"date" db:"date"`
	WeightKG  float64    `json:"weight_kg" db:"weight_kg"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// macroTotals is a calorie/macro sum used for food-log totals and targets.
type macroTotals struct {
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// dailyFoodLog is the response shape for GET /clients/:id/food-log/daily.
// Target and Remaining are nil when the client has no nutrition plan yet.
type dailyFoodLog struct {
	Date      string         `json:"date"`
	Items     []foodLogItem  `json:"items"`
	Consumed  macroTotals    `json:"consumed"`
	Target    *macroTotals   `json:"target"`
	Remaining *macroTotals   `json:"remaining"`
	Plan      *nutritionPlan `json:"plan"`
}

/* ─── Request structs ────────────────────────────────────────────────── */

// createClientRequest is the request body for POST /api/clients.
type createClientRequest struct {
	Name          string   `json:"name" binding:"required"`
	Email         *string  `json:"email" binding:"omitempty,email"`
	Sex           *string  `json:"sex"`
	DateOfBirth   *string  `json:"date_of_birth"` // YYYY-MM-DD
	HeightCM      *float64 `json:"height_cm" binding:"omitempty,gt=0"`
	WeightKG      *float64 `json:"weight_kg" binding:"omitempty,gt=0"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          *string  `json:"goal"`
	MacroPreset   *string  `json:"macro_preset"`
	Notes         *string  `json:"notes"`
}

// patchClientRequest is the request body for PATCH /api/clients/:id.
// All fields are pointers; only non-nil fields get written.
type patchClientRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=1"`
	Email         *string  `json:"email" binding:"omitempty,email"`
	Sex           *string  `json:"sex"`
	DateOfBirth   *string  `json:"date_of_birth"`
	HeightCM      *float64 `json:"height_cm" binding:"omitempty,gt=0"`
	WeightKG      *float64 `json:"weight_kg" binding:"omitempty,gt=0"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          *string  `json:"goal"`
	MacroPreset   *string  `json:"macro_preset"`
	Notes         *string  `json:"notes"`
}

// createNutritionPlanRequest optionally overrides the stored client profile
// for a single plan computation.
type createNutritionPlanRequest struct {
	ActivityLevel *string          `json:"activity_level"`
	Goal          *string          `json:"goal"`
	MacroPreset   *string          `json:"macro_preset"`
	CustomMacros  *customMacroBody `json:"custom_macros"`
	TargetDeltaKg *float64         `json:"target_delta_kg"`
}

// createFoodLogItemRequest is the request body for POST /clients/:id/food-log.
type createFoodLogItemRequest struct {
	Date     string   `json:"date"`
	ItemName string   `json:"item_name"`
	Meal     string   `json:"meal"`
	Qty      *float64 `json:"qty"`
	Uom      *string  `json:"uom"`
	Calories int      `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
}
