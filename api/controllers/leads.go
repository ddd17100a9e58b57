package controllers

import (
	"context"
	"net/http"

	"github.com/adbroadcast/website-backend/api/responses"
	"github.com/adbroadcast/website-backend/api/validators"
	"github.com/adbroadcast/website-backend/internal/leads"
	"github.com/adbroadcast/website-backend/pkg/db/models"
	"github.com/adbroadcast/website-backend/pkg/enums"
	pkgerrors "github.com/adbroadcast/website-backend/pkg/errors"
	"github.com/adbroadcast/website-backend/pkg/logger"
)

const methodNotAllowedMessage = "Method not allowed."

type submitFunc func(ctx context.Context, s leads.Submission) (*models.Lead, error)

// ShopRequest records a purchase request from the shop drawer.
func ShopRequest(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return intake(enums.LeadSourceShop, svc.SubmitShopRequest, logg)
}

// ContactForm records a message from the contact page.
func ContactForm(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return intake(enums.LeadSourceContact, svc.SubmitContact, logg)
}

func intake(source enums.LeadSource, submit submitFunc, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			responses.WriteLeadResult(w, http.StatusMethodNotAllowed, false, methodNotAllowedMessage)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithField(ctx, "lead_source", source.String())
		}

		raw, err := validators.ReadBody(w, r, validators.DefaultMaxBodyBytes)
		if err != nil {
			typed := pkgerrors.As(err)
			responses.WriteLeadResult(w, pkgerrors.MetadataFor(typed.Code()).HTTPStatus, false, typed.Message())
			return
		}

		if _, err := submit(ctx, leads.ParseSubmission(raw)); err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnprocessable {
				responses.WriteLeadResult(w, http.StatusUnprocessableEntity, false, typed.Message())
				return
			}
			responses.LogError(ctx, logg, err)
			responses.WriteLeadResult(w, http.StatusInternalServerError, false, leads.FailureMessage(source))
			return
		}

		responses.WriteLeadResult(w, http.StatusOK, true, leads.SuccessMessage(source))
	}
}
