package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the standard envelope. Field order: code, msg, data.
type Response struct {
	Code int         `json:"code"` // 0 on success
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// Business codes.
const (
	CodeSuccess = 0

	// request / validation 10xxx
	CodeInvalidRequest = 10001
	CodeInvalidFormat  = 10002
	CodeMissingParam   = 10003
	CodeValidation     = 10004 // field-level errors in data
	CodeDuplicate      = 10005 // uniqueness / foreign key violation
	CodeEmailExists    = 10006
	CodeInvalidStatus  = 10007
	CodeFileRequired   = 10008
	CodeFileTooLarge   = 10009
	CodeUploadType     = 10010
	CodeOfferExhausted = 10011
	CodeOfferInactive  = 10012

	// authentication / authorization 20xxx
	CodeInvalidCredentials = 20001
	CodeInvalidToken       = 20002
	CodeAccountDisabled    = 20003
	CodeForbidden          = 20008

	// not found 40xxx
	CodeNotFound            = 40000
	CodeUserNotFound        = 40001
	CodePostNotFound        = 40002
	CodeCategoryNotFound    = 40003
	CodeTagNotFound         = 40004
	CodeCommentNotFound     = 40005
	CodeJobNotFound         = 40006
	CodeApplicationNotFound = 40007
	CodeEnquiryNotFound     = 40008
	CodeOfferNotFound       = 40009
	CodeReviewNotFound      = 40010

	// server 90xxx
	CodeServerError = 90001
	CodeUnavailable = 90002
	CodeTooManyReq  = 90003
)

var codeMessages = map[int]string{
	CodeSuccess:             "ok",
	CodeInvalidRequest:      "invalid request",
	CodeInvalidFormat:       "invalid parameter format",
	CodeMissingParam:        "missing required parameter",
	CodeValidation:          "validation failed",
	CodeDuplicate:           "a record with the same unique value already exists",
	CodeEmailExists:         "this email is already registered",
	CodeInvalidStatus:       "invalid status",
	CodeFileRequired:        "no file provided",
	CodeFileTooLarge:        "file is too large",
	CodeUploadType:          "unsupported upload type",
	CodeOfferExhausted:      "offer usage limit reached",
	CodeOfferInactive:       "offer is not currently valid",
	CodeInvalidCredentials:  "invalid email or password",
	CodeInvalidToken:        "authentication credentials were not provided or are invalid",
	CodeAccountDisabled:     "account is disabled",
	CodeForbidden:           "you do not have permission to perform this action",
	CodeNotFound:            "not found",
	CodeUserNotFound:        "user not found",
	CodePostNotFound:        "blog post not found",
	CodeCategoryNotFound:    "category not found",
	CodeTagNotFound:         "tag not found",
	CodeCommentNotFound:     "comment not found",
	CodeJobNotFound:         "job not found",
	CodeApplicationNotFound: "job application not found",
	CodeEnquiryNotFound:     "enquiry not found",
	CodeOfferNotFound:       "offer not found",
	CodeReviewNotFound:      "review not found",
	CodeServerError:         "internal server error, please try again later",
	CodeUnavailable:         "service temporarily unavailable",
	CodeTooManyReq:          "too many requests, please try again later",
}

// Message returns the default message for code.
func Message(code int) string {
	msg, ok := codeMessages[code]
	if !ok {
		return "unknown error"
	}
	return msg
}

// Success writes a 200 response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: CodeSuccess,
		Msg:  codeMessages[CodeSuccess],
		Data: data,
	})
}

// SuccessWithMsg writes a 200 response with a custom message.
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: CodeSuccess,
		Msg:  msg,
		Data: data,
	})
}

// Created writes a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: CodeSuccess,
		Msg:  codeMessages[CodeSuccess],
		Data: data,
	})
}

// Error writes the HTTP status mapped from code with its default message.
func Error(c *gin.Context, code int) {
	c.JSON(codeToHTTPStatus(code), Response{
		Code: code,
		Msg:  Message(code),
		Data: nil,
	})
}

// ErrorWithMsg is Error with a custom message.
func ErrorWithMsg(c *gin.Context, code int, msg string) {
	c.JSON(codeToHTTPStatus(code), Response{
		Code: code,
		Msg:  msg,
		Data: nil,
	})
}

// ErrorWithData is Error carrying details, e.g. field errors.
func ErrorWithData(c *gin.Context, code int, data interface{}) {
	c.JSON(codeToHTTPStatus(code), Response{
		Code: code,
		Msg:  Message(code),
		Data: data,
	})
}

// HTTPStatus exposes the code mapping for callers that write their own bodies.
func HTTPStatus(code int) int {
	return codeToHTTPStatus(code)
}

func codeToHTTPStatus(code int) int {
	switch {
	case code == CodeSuccess:
		return http.StatusOK
	case code >= 10000 && code < 20000:
		return http.StatusBadRequest
	case code >= 20000 && code < 30000:
		if code == CodeInvalidToken || code == CodeInvalidCredentials {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	case code >= 40000 && code < 50000:
		return http.StatusNotFound
	case code >= 50000 && code < 60000:
		return http.StatusConflict
	case code == CodeTooManyReq:
		return http.StatusTooManyRequests
	case code == CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
