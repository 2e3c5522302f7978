package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// bindJSON reports binding failures on c and returns false.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.Error(apperror.Validation(validation.FormatValidationErrors(err)))
		} else {
			c.Error(apperror.BadRequest("Invalid request body"))
		}
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.BadRequestf("Invalid %s", name))
		return 0, false
	}
	return id, true
}

func pageRequest(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(domain.DefaultPageSize)))
	return domain.NewPageRequest(page, size)
}

// principal aborts with 401 when the route was mounted without AuthMiddleware.
func principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.Error(apperror.Unauthorized("User not authenticated"))
	}
	return p, ok
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperror.Validation(map[string]string{field: "must be a date formatted as YYYY-MM-DD"})
	}
	return t, nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// streamResume copies an opened resume to the client and closes it.
func streamResume(c *gin.Context, file *domain.ResumeFile, disposition string) {
	defer file.Body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.Resume.FileName))
	c.Header("Cache-Control", "private, no-store")
	c.DataFromReader(http.StatusOK, file.Size, domain.ResumeContentType, file.Body, nil)
}

// readUpload reads a multipart file field capped at max bytes.
func readUpload(c *gin.Context, field string, max int64) (*domain.ResumeUpload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperror.BadRequest("Invalid multipart upload")
	}
	if fh.Size > max {
		return nil, apperror.BadRequest("File exceeds the maximum allowed size")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.BadRequest("Invalid multipart upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if int64(len(data)) > max {
		return nil, apperror.BadRequest("File exceeds the maximum allowed size")
	}
	return &domain.ResumeUpload{FileName: fh.Filename, Data: data}, nil
}
