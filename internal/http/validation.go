package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"

	"condo/internal/core"
)

const maxBodyBytes = 1 << 20

var (
	validate   *validator.Validate
	translator ut.Translator

	notBlankTag = "notblank"
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Spanish messages, matching the rest of the user-facing text.
	spanish := es.New()
	uni := ut.New(spanish, spanish)
	translator, _ = uni.GetTranslator("es")
	_ = es_translations.RegisterDefaultTranslations(validate, translator)

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " no puede estar vacío"
		})
}

func notBlank(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// FieldErrors maps JSON field names to messages.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for k, v := range fe {
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, "; ")
}

var errBadBody = errors.New("invalid request body")

// decodeAndValidate reads a JSON body into dst and runs the struct rules.
// Decoding problems wrap errBadBody; rule violations are FieldErrors.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadBody)
		}
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(FieldErrors, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = fe.Translate(translator)
		}
		return out
	}
	return err
}

// amount accepts a JSON number or a string such as "1,500.50" or "$350".
type amount string

func (a *amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return core.ErrInvalidAmount
	}
	*a = amount(n.String())
	return nil
}

func (a amount) money(field string) (core.Money, error) {
	m, err := core.ParseMoney(string(a))
	if err != nil {
		return core.Money{}, FieldErrors{field: "monto inválido"}
	}
	return m, nil
}

type sessionRequest struct {
	Role string `json:"role" validate:"required"`
}

type propertyRequest struct {
	LotNumber int    `json:"lotNumber" validate:"required,gt=0"`
	Address   string `json:"address" validate:"required,notblank"`
	Model     string `json:"model"`
	Area      int    `json:"sqMeters" validate:"gte=0"`
	OwnerID   string `json:"ownerId"`
}

type ownerRequest struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
}

type transactionRequest struct {
	PropertyID string `json:"propertyId" validate:"required"`
	Type       string `json:"type" validate:"required,oneof='Maintenance Fee' Fine 'Extra Service'"`
	Amount     amount `json:"amount" validate:"required"`
	Status     string `json:"status" validate:"required,oneof=Paid Pending Overdue"`
}

type expenseRequest struct {
	Category    string `json:"category" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
	Amount      amount `json:"amount" validate:"required"`
}

// PropertyID is ignored for residents.
type visitorRequest struct {
	Name       string `json:"name" validate:"required,notblank"`
	IDNumber   string `json:"idNumber"`
	PropertyID string `json:"propertyId"`
}

// PropertyID may be empty for residents; their own property is used.
type maintenanceRequest struct {
	PropertyID  string `json:"propertyId"`
	Area        string `json:"area" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
}

type bookingRequest struct {
	Amenity    string `json:"amenity" validate:"required,notblank"`
	PropertyID string `json:"propertyId"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot   string `json:"timeSlot" validate:"required,notblank"`
}

type packageRequest struct {
	PropertyID string `json:"propertyId" validate:"required"`
	Carrier    string `json:"carrier" validate:"required,notblank"`
}

type marketplaceRequest struct {
	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description"`
	Price       amount `json:"price" validate:"required"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
}

type providerRequest struct {
	Name    string `json:"name" validate:"required,notblank"`
	Service string `json:"service" validate:"required,notblank"`
	Phone   string `json:"phone" validate:"required"`
	Rating  int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

type businessRequest struct {
	Name     string `json:"name" validate:"required,notblank"`
	Category string `json:"category" validate:"required,notblank"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type announcementRequest struct {
	Title   string `json:"title" validate:"required,notblank"`
	Content string `json:"content" validate:"required,notblank"`
}

type pollRequest struct {
	Title       string   `json:"title" validate:"required,notblank"`
	Description string   `json:"description"`
	ClosingDate string   `json:"closingDate" validate:"omitempty,datetime=2006-01-02"`
	Options     []string `json:"options" validate:"min=2,dive,required,notblank"`
}

type voteRequest struct {
	OptionID string `json:"optionId" validate:"required"`
}

type visitorStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Inside Departed"`
}

type questionRequest struct {
	Prompt string `json:"prompt" validate:"required,notblank,max=2000"`
}

type draftRequest struct {
	Topic string `json:"topic" validate:"required,notblank,max=500"`
}

type exportRequest struct {
	Reports []string `json:"reports" validate:"dive,oneof=estado-de-cuenta ingresos-egresos morosidad"`
}
