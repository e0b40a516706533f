package server

import (
	"time"

	"nutrilog/internal/models"
	"nutrilog/internal/service"
	"nutrilog/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// foodEntryRequest is the body for create and update. On update, absent or null fields keep
// their stored values.
type foodEntryRequest struct {
	FoodName *string          `json:"food_name"`
	Calories *decimal.Decimal `json:"calories" swaggertype:"number"`
	Protein  *decimal.Decimal `json:"protein_g" swaggertype:"number"`
	Carbs    *decimal.Decimal `json:"carbs_g" swaggertype:"number"`
	Fats     *decimal.Decimal `json:"fats_g" swaggertype:"number"`
	LoggedAt *string          `json:"logged_at" example:"2026-01-25T12:00:00"`
}

// loggedAt parses the optional logged_at field in the reference location.
func (r foodEntryRequest) loggedAt(loc *time.Location, errs *validation.Errors) *time.Time {
	if r.LoggedAt == nil {
		return nil
	}
	t, err := validation.ParseTimestamp(*r.LoggedAt, loc)
	if err != nil {
		errs.Add("logged_at", err)
		return nil
	}
	return &t
}

// CreateFoodEntry handles POST /api/nutrition/food-log
// @Summary Log a food entry
// @Tags nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body foodEntryRequest true "Food entry"
// @Success 201 {object} models.FoodEntry
// @Failure 401 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /nutrition/food-log [post]
func (s *Server) CreateFoodEntry(c *fiber.Ctx) error {
	var req foodEntryRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	var errs validation.Errors
	loggedAt := req.loggedAt(s.nutritionService.Location(), &errs)
	if err := errs.Err(); err != nil {
		return s.respondError(c, err)
	}

	in := service.CreateFoodEntryInput{
		AccountID: currentAccount(c).ID,
		Calories:  req.Calories,
		Protein:   req.Protein,
		Carbs:     req.Carbs,
		Fats:      req.Fats,
		LoggedAt:  loggedAt,
	}
	if req.FoodName != nil {
		in.FoodName = *req.FoodName
	}

	entry, err := s.nutritionService.CreateEntry(c.UserContext(), in)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// ListFoodEntries handles GET /api/nutrition/food-log
// @Summary List food entries
// @Description Newest first. limit above the maximum is clamped.
// @Tags nutrition
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Entries to skip" minimum(0)
// @Param limit query int false "Page size" maximum(100)
// @Param start_date query string false "Inclusive lower bound on logged_at (ISO-8601)"
// @Param end_date query string false "Inclusive upper bound on logged_at (ISO-8601)"
// @Success 200 {array} models.FoodEntry
// @Failure 401 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /nutrition/food-log [get]
func (s *Server) ListFoodEntries(c *fiber.Ctx) error {
	skip, limit, errs := validation.ParsePagination(c.Query("skip"), c.Query("limit"), s.nutritionService.MaxLimit())

	in := service.ListFoodEntriesInput{
		AccountID: currentAccount(c).ID,
		Skip:      skip,
		Limit:     limit,
	}
	loc := s.nutritionService.Location()
	if raw := c.Query("start_date"); raw != "" {
		t, err := validation.ParseTimestamp(raw, loc)
		errs.Add("start_date", err)
		if err == nil {
			in.Start = &t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := validation.ParseTimestamp(raw, loc)
		errs.Add("end_date", err)
		if err == nil {
			in.End = &t
		}
	}
	if err := errs.Err(); err != nil {
		return s.respondError(c, err)
	}

	entries, err := s.nutritionService.ListEntries(c.UserContext(), in)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(entries)
}

// GetFoodEntry handles GET /api/nutrition/food-log/:id
// @Summary Get a food entry
// @Tags nutrition
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} models.FoodEntry
// @Failure 404 {object} models.ErrorResponse
// @Router /nutrition/food-log/{id} [get]
func (s *Server) GetFoodEntry(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	entry, err := s.nutritionService.GetEntry(c.UserContext(), currentAccount(c).ID, id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(entry)
}

// UpdateFoodEntry handles PUT /api/nutrition/food-log/:id
// @Summary Update a food entry
// @Description Partial update; only provided fields change.
// @Tags nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param request body foodEntryRequest true "Fields to change"
// @Success 200 {object} models.FoodEntry
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /nutrition/food-log/{id} [put]
func (s *Server) UpdateFoodEntry(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req foodEntryRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	var errs validation.Errors
	loggedAt := req.loggedAt(s.nutritionService.Location(), &errs)
	if err := errs.Err(); err != nil {
		return s.respondError(c, err)
	}

	entry, err := s.nutritionService.UpdateEntry(c.UserContext(), service.UpdateFoodEntryInput{
		AccountID: currentAccount(c).ID,
		EntryID:   id,
		FoodName:  req.FoodName,
		Calories:  req.Calories,
		Protein:   req.Protein,
		Carbs:     req.Carbs,
		Fats:      req.Fats,
		LoggedAt:  loggedAt,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(entry)
}

// DeleteFoodEntry handles DELETE /api/nutrition/food-log/:id
// @Summary Delete a food entry
// @Tags nutrition
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /nutrition/food-log/{id} [delete]
func (s *Server) DeleteFoodEntry(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.nutritionService.DeleteEntry(c.UserContext(), currentAccount(c).ID, id); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetDailySummary handles GET /api/nutrition/daily-summary
// @Summary Daily nutrition totals
// @Description Sums the entries logged on the given calendar day, both ends inclusive.
// @Tags nutrition
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day as YYYY-MM-DD, defaults to today"
// @Success 200 {object} models.DailySummary
// @Failure 422 {object} models.ErrorResponse
// @Router /nutrition/daily-summary [get]
func (s *Server) GetDailySummary(c *fiber.Ctx) error {
	day := s.nutritionService.Today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := validation.ParseDate(raw, s.nutritionService.Location())
		if err != nil {
			return s.respondError(c, models.NewFieldValidationError([]models.FieldError{{
				Field:   "date",
				Message: err.Error(),
			}}))
		}
		day = parsed
	}

	summary, err := s.nutritionService.DailySummary(c.UserContext(), currentAccount(c).ID, day)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(summary)
}
