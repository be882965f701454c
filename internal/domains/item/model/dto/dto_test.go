package dto_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"rento/internal/domains/item/model/dto"
	"rento/shared/failure"
	"rento/shared/validator"
)

func TestCreateItemRequest_Price(t *testing.T) {
	req := dto.CreateItemRequest{Title: "Kayak", Category: "water", Price: 25.5}
	assert.NoError(t, validator.ValidateStruct(&req))

	for _, price := range []float64{0.004, 1.999, -1} {
		req.Price = price

		err := validator.ValidateStruct(&req)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err), price)
	}
}

func TestUpdateItemRequest_Price(t *testing.T) {
	assert.NoError(t, validator.ValidateStruct(&dto.UpdateItemRequest{}))

	price := 0.004
	err := validator.ValidateStruct(&dto.UpdateItemRequest{Price: &price})
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	price = 12.5
	assert.NoError(t, validator.ValidateStruct(&dto.UpdateItemRequest{Price: &price}))
}
