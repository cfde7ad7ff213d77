package controllers

import (
	"strings"
	"time"

	c_uuid "github.com/centsible/backend/internal/uuid"
)

type URIID struct {
	ID c_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URIGoal struct {
	GoalID c_uuid.UUID `uri:"goalId" binding:"required" format:"UUID"` // ID of the goal
}

type URIGoalSaving struct {
	GoalID   c_uuid.UUID `uri:"goalId" binding:"required" format:"UUID"`   // ID of the goal
	SavingID c_uuid.UUID `uri:"savingId" binding:"required" format:"UUID"` // ID of the saving
}

// httpError is used for errors on endpoints that do not return a resource.
type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// dateLayouts are the accepted formats for date query parameters.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate parses a date query parameter, accepting plain dates and
// RFC3339 timestamps.
func parseDate(value string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		t, err = time.Parse(layout, value)
		if err == nil {
			return t.In(time.UTC), nil
		}
	}

	return time.Time{}, err
}

// splitCategories parses the comma-separated categories query parameter.
func splitCategories(raw string) []string {
	var categories []string
	for _, category := range strings.Split(raw, ",") {
		category = strings.TrimSpace(category)
		if category != "" {
			categories = append(categories, category)
		}
	}

	return categories
}
