package helper

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"conduit-api/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"go.uber.org/zap"
)

const (
	textError = `error`
	textOk    = `ok`
)

// ResponseHelper ...
type ResponseHelper struct {
	C        *gin.Context
	Status   string
	Message  string
	Data     interface{}
	Code     int
	CodeType string
	Type     string
	Errors   map[string][]string
}

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
	Logger     *zap.SugaredLogger
}

// NewHTTPHelper wires english messages into gin's validator so binding
// errors can be reported per field.
func NewHTTPHelper(logger *zap.SugaredLogger) *HTTPHelper {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	h := &HTTPHelper{Logger: logger}

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return h
	}
	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
		logger.Warnw("validator translations not registered", "error", err)
	}
	v.RegisterTagNameFunc(jsonFieldName)

	h.Validate = v
	h.Translator = trans
	return h
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// GetStatusCode ...
func (u *HTTPHelper) GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		notFound     *models.ErrorNotFound
		permission   *models.ErrorPermission
		conflict     *models.ErrorConflict
		unauthorized *models.ErrorUnauthorized
		rateLimit    *models.ErrorRateLimit
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &permission):
		return http.StatusForbidden
	case errors.As(err, &conflict):
		return http.StatusBadRequest
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &rateLimit):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// describe returns the error discriminator and the field reasons, if any.
func describe(err error) (string, map[string][]string) {
	var (
		notFound     *models.ErrorNotFound
		permission   *models.ErrorPermission
		conflict     *models.ErrorConflict
		unauthorized *models.ErrorUnauthorized
		rateLimit    *models.ErrorRateLimit
	)
	switch {
	case errors.As(err, &notFound):
		return notFound.Type, map[string][]string{}
	case errors.As(err, &permission):
		return permission.Type, map[string][]string{}
	case errors.As(err, &conflict):
		return conflict.Type, copyFields(conflict.Fields)
	case errors.As(err, &unauthorized):
		return unauthorized.Type, copyFields(unauthorized.Fields)
	case errors.As(err, &rateLimit):
		return rateLimit.Type, map[string][]string{}
	default:
		return "InternalServerError", map[string][]string{}
	}
}

func copyFields(fields map[string][]string) map[string][]string {
	out := make(map[string][]string, len(fields))
	for k, v := range fields {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func codeType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return `badRequest`
	case http.StatusUnauthorized:
		return `unAuthorized`
	case http.StatusForbidden:
		return `forbidden`
	case http.StatusNotFound:
		return `notFound`
	case http.StatusUnprocessableEntity:
		return `validationError`
	case http.StatusTooManyRequests:
		return `rateLimited`
	default:
		return `internalServerError`
	}
}

// SendError ...
// Send a domain or storage error to consumers with its mapped status.
func (u *HTTPHelper) SendError(c *gin.Context, err error) error {
	status := u.GetStatusCode(err)
	errType, fields := describe(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		u.Logger.Errorw("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		message = "internal server error"
	}

	res := u.SetResponse(c, textError, message, u.EmptyJsonMap(), status, codeType(status))
	res.Type = errType
	res.Errors = fields
	return u.SendResponse(res)
}

// SendBindingError ...
// Send request binding failures. Validation failures are reported per field.
func (u *HTTPHelper) SendBindingError(c *gin.Context, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return u.SendValidationError(c, validationErrors)
	}
	return u.SendBadRequest(c, err.Error(), u.EmptyJsonMap())
}

// SetResponse ...
// Set response data.
func (u *HTTPHelper) SetResponse(c *gin.Context, status string, message string, data interface{}, code int, codeType string) ResponseHelper {
	return ResponseHelper{C: c, Status: status, Message: message, Data: data, Code: code, CodeType: codeType}
}

// SendBadRequest ...
// Send bad request response to consumers.
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textError, message, data, http.StatusBadRequest, codeType(http.StatusBadRequest))
	res.Type = "RequestValidationError"
	return u.SendResponse(res)
}

// SendValidationError ...
// Send validation error response to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) error {
	errorResponse := map[string][]string{}
	for _, err := range validationErrors {
		reason := err.Error()
		if u.Translator != nil {
			reason = err.Translate(u.Translator)
		}
		errorResponse[err.Field()] = append(errorResponse[err.Field()], reason)
	}

	res := u.SetResponse(c, textError, "Schema validation error", u.EmptyJsonMap(), http.StatusUnprocessableEntity, codeType(http.StatusUnprocessableEntity))
	res.Type = "RequestValidationError"
	res.Errors = errorResponse
	return u.SendResponse(res)
}

// SendUnauthorizedError ...
// Send unauthorized response to consumers.
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, err error) error {
	return u.SendError(c, err)
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, http.StatusOK, `success`)
	return u.SendResponse(res)
}

// SendNoContent ...
func (u *HTTPHelper) SendNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// SendResponse ...
// Send response with the status carried by res.Code.
func (u *HTTPHelper) SendResponse(res ResponseHelper) error {
	if len(res.Message) == 0 {
		res.Message = `success`
	}

	body := map[string]interface{}{
		"code":         res.Code,
		"code_type":    res.CodeType,
		"code_message": res.Message,
		"data":         res.Data,
	}
	if res.Status == textError {
		if res.Errors == nil {
			res.Errors = map[string][]string{}
		}
		body["type"] = res.Type
		body["errors"] = res.Errors
	}

	res.C.JSON(res.Code, body)
	return nil
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}
