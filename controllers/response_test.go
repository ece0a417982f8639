package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/services"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrProductNotFound, http.StatusNotFound},
		{fmt.Errorf("record sale: %w", services.ErrCustomerNotFound), http.StatusNotFound},
		{services.ErrSponsorCycle, http.StatusUnprocessableEntity},
		{services.ErrDiscountTooLarge, http.StatusUnprocessableEntity},
		{services.ErrCannotDeleteSelf, http.StatusUnprocessableEntity},
		{services.ErrUsernameTaken, http.StatusConflict},
		{services.ErrRepresentativeOwned, http.StatusForbidden},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestValidatorUsesJSONNames(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&models.CreateSaleRequest{})
	assert.Error(t, err)

	var bad *badRequestError
	if assert.True(t, errors.As(invalid(err), &bad)) {
		fields := map[string]string{}
		for _, f := range bad.fields {
			fields[f.Field] = f.Rule
		}
		assert.Equal(t, "required", fields["productId"])
		assert.Equal(t, "required", fields["customerId"])
		assert.Equal(t, "required", fields["quantity"])
	}
}
