package handler

import (
	"errors"
	"net/http"
	"reflect"

	"reistoq/internal/apierror"
	"reistoq/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal is a struct; expose it as float64 so numeric tags
	// like gte=0 apply.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false after writing the error response; the caller must return.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros inválidos: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(ves))
		for _, fe := range ves {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramID parses the :id path parameter, writing a 400 when malformed.
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// statusDe maps service errors to HTTP status codes. Anything not listed is
// a business-rule violation and answers 400.
func statusDe(err error) int {
	switch {
	case errors.Is(err, service.ErrProdutoNaoEncontrado),
		errors.Is(err, service.ErrCategoriaNaoEncontrada),
		errors.Is(err, service.ErrMapeamentoNaoEncontrado),
		errors.Is(err, service.ErrUsuarioNaoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSkuDuplicado),
		errors.Is(err, service.ErrCategoriaDuplicada),
		errors.Is(err, service.ErrMapeamentoDuplicado),
		errors.Is(err, service.ErrEstoqueInsuficiente):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func responderErro(c *gin.Context, err error) {
	c.JSON(statusDe(err), apierror.New(err.Error()))
}

// falhaInterna logs err through the ErrorHandler middleware and answers 500
// with msg.
func falhaInterna(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, apierror.New(msg))
}
