package backend

import (
	"context"
	"net/http"

	"github.com/asif-kamal/storefront/pkg/request"
	"github.com/asif-kamal/storefront/pkg/response"
)

func (cl *Client) Checkout(
	c context.Context,
	token string,
	idempotencyKey string,
	order request.Order,
) (response.Receipt, error) {
	receipt := response.Receipt{}
	err := cl.do(c, call{
		method:         http.MethodPost,
		path:           "/receipts/checkout",
		token:          token,
		idempotencyKey: idempotencyKey,
		body:           order,
	}, &receipt)
	if err != nil {
		return response.Receipt{}, err
	}
	return receipt, nil
}
