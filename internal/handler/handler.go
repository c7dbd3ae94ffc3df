// Package handler holds the HTTP handlers of the API.
package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pestozap/pestozap-backend/internal/middleware"
	"github.com/pestozap/pestozap-backend/internal/repository"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/pestozap/pestozap-backend/pkg/response"
	"go.uber.org/zap"
)

// query parameters that are not column filters
var reservedParams = map[string]bool{
	"page":      true,
	"page_size": true,
	"search":    true,
	"ordering":  true,
}

// errorCodes maps service errors to business codes. Order matters only for
// wrapped errors, which match the first entry.
var errorCodes = []struct {
	err  error
	code int
}{
	{service.ErrInvalidCredentials, response.CodeInvalidCredentials},
	{service.ErrAccountDisabled, response.CodeAccountDisabled},
	{service.ErrInvalidToken, response.CodeInvalidToken},
	{service.ErrTokenExpired, response.CodeInvalidToken},
	{service.ErrTokenRevoked, response.CodeInvalidToken},
	{service.ErrInvalidSignature, response.CodeInvalidToken},
	{service.ErrInvalidIssuer, response.CodeInvalidToken},
	{service.ErrWrongTokenType, response.CodeInvalidToken},
	{service.ErrCannotDeleteSelf, response.CodeForbidden},

	{service.ErrEmailExists, response.CodeEmailExists},
	{service.ErrUsernameExists, response.CodeDuplicate},
	{service.ErrSlugExhausted, response.CodeDuplicate},
	{repository.ErrDuplicate, response.CodeDuplicate},
	{repository.ErrForeignKey, response.CodeDuplicate},
	{repository.ErrInvalidOrdering, response.CodeInvalidFormat},
	{service.ErrInvalidStatus, response.CodeInvalidStatus},
	{service.ErrFileRequired, response.CodeFileRequired},
	{service.ErrFileTooLarge, response.CodeFileTooLarge},
	{service.ErrUploadType, response.CodeUploadType},
	{service.ErrNotImage, response.CodeUploadType},
	{service.ErrOfferExhausted, response.CodeOfferExhausted},
	{service.ErrOfferInactive, response.CodeOfferInactive},

	{service.ErrUserNotFound, response.CodeUserNotFound},
	{service.ErrPostNotFound, response.CodePostNotFound},
	{service.ErrCategoryNotFound, response.CodeCategoryNotFound},
	{service.ErrTagNotFound, response.CodeTagNotFound},
	{service.ErrCommentNotFound, response.CodeCommentNotFound},
	{service.ErrJobNotFound, response.CodeJobNotFound},
	{service.ErrApplicationNotFound, response.CodeApplicationNotFound},
	{service.ErrEnquiryNotFound, response.CodeEnquiryNotFound},
	{service.ErrOfferNotFound, response.CodeOfferNotFound},
	{service.ErrReviewNotFound, response.CodeReviewNotFound},
}

// fail writes err as an error envelope. Field errors go out in data;
// unknown errors are logged and hidden behind a server error.
func fail(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ErrorWithData(c, response.CodeValidation, verrs)
		return
	}
	for _, m := range errorCodes {
		if errors.Is(err, m.err) {
			response.Error(c, m.code)
			return
		}
	}

	middleware.GetLogger().Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Any("request_id", c.Value("request_id")),
		zap.Error(err),
	)
	response.Error(c, response.CodeServerError)
}

// bind decodes the JSON body into dst, writing the error response itself.
func bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// listQuery reads page, search, ordering and every other parameter as an
// equality filter. The repository ignores filters it does not declare.
func listQuery(c *gin.Context) *repository.ListQuery {
	q := &repository.ListQuery{
		Page:     repository.ParsePage(c.Query("page")),
		Search:   strings.TrimSpace(c.Query("search")),
		Ordering: strings.TrimSpace(c.Query("ordering")),
		Filters:  map[string]string{},
	}
	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] || len(values) == 0 || values[0] == "" {
			continue
		}
		q.Filters[key] = values[0]
	}
	return q
}

// queryBool parses a boolean query parameter; absent or invalid yields def.
func queryBool(c *gin.Context, key string, def bool) bool {
	v, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// queryDate parses a YYYY-MM-DD query parameter in UTC.
func queryDate(c *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return nil, validation.Errors{key: errors.New("must be a date in YYYY-MM-DD format")}
	}
	return &t, nil
}

// queryList splits comma-separated and repeated parameters.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func deleted(c *gin.Context) {
	response.SuccessWithMsg(c, "deleted", nil)
}
