// internal/httpapi/checkout.go
//
// Cart endpoints: checkout and discount validation.
//
// Context
// -------
// The storefront never owns orders or discounts — it validates the
// request shape, stamps the resolved tenant on it, and forwards to the
// backend service.  Field-level problems come back as 400 with per-field
// messages; a business rejection from the service is a 422 passthrough;
// a service failure is a 502.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yanizio/storefront/internal/fault"
	"github.com/yanizio/storefront/internal/metrics"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CheckoutRequest is the storefront-facing checkout payload.
type CheckoutRequest struct {
	Email        string         `json:"email" validate:"required,email"`
	Items        []CheckoutItem `json:"items" validate:"required,min=1,dive"`
	DiscountCode string         `json:"discount_code"`
}

// DiscountRequest asks whether a code applies to the given subtotal.
type DiscountRequest struct {
	Code          string `json:"code" validate:"required,min=1,max=64"`
	SubtotalCents int64  `json:"subtotal_cents" validate:"gte=0"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ten, err := s.Tenants.Resolve(r.Context(), hostOnly(r.Host))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req CheckoutRequest
	if !s.decodeAndValidate(w, r, &req) {
		metrics.CheckoutTotal.WithLabelValues("invalid").Inc()
		return
	}

	res, err := s.Orders.CreateCheckout(r.Context(), ten.ID, req.Email, req.Items, req.DiscountCode)
	if err != nil {
		metrics.CheckoutTotal.WithLabelValues("error").Inc()
		s.respondError(w, r, err)
		return
	}

	if !res.Accepted {
		metrics.CheckoutTotal.WithLabelValues("rejected").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	metrics.CheckoutTotal.WithLabelValues("accepted").Inc()
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleValidateDiscount(w http.ResponseWriter, r *http.Request) {
	ten, err := s.Tenants.Resolve(r.Context(), hostOnly(r.Host))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req DiscountRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	res, err := s.Discounts.Validate(r.Context(), ten.ID, req.Code, req.SubtotalCents)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decodeAndValidate fills dst from the body and runs struct validation.
// On failure it writes the 400 itself and returns false.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.respondError(w, r, fault.Validation("malformed JSON body: %v", err))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, errorBody{
				Error:  "validation failed",
				Fields: fieldMessages(verrs),
			})
			return false
		}
		s.respondError(w, r, fault.Validation("invalid request: %v", err))
		return false
	}
	return true
}

// fieldMessages flattens validator errors into field → message pairs the
// frontend can show inline.
func fieldMessages(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[name] = "is required"
		case "email":
			out[name] = "must be a valid email address"
		case "min":
			out[name] = "is too short"
		case "max":
			out[name] = "is too long"
		case "gte":
			out[name] = "must not be negative"
		default:
			out[name] = "is invalid"
		}
	}
	return out
}
