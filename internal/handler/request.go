package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/response"
)

const dateLayout = "2006-01-02"

type courseRef struct {
	CourseID string `json:"course_id" binding:"required"`
}

type labelRequest struct {
	Label string `json:"label"`
}

// bindJSON decodes the request body into dest and writes a VALIDATION_ERROR
// response when it cannot.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, appErrors.Validation(err, key+" must be true or false")
	}
	return &v, nil
}

// queryTime accepts either a calendar date or an RFC3339 timestamp. A bare
// date used as an upper bound covers the whole day.
func queryTime(c *gin.Context, key string, endOfDay bool) (time.Time, bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, appErrors.Validation(err, key+" must be YYYY-MM-DD or RFC3339")
	}
	return t.UTC(), true, nil
}

func exportFormat(c *gin.Context) models.ExportFormat {
	return models.ExportFormat(strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", string(models.ExportFormatCSV)))))
}
