package paypalgateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myhttpclient"
)

//go:generate mockgen -source=payer.go -package paypalgateway -destination payer_mock.go Payer
type Payer interface {
	// CreateOrder registers the order on the payment platform and returns
	// the payment-order uid needed to capture it
	CreateOrder(c context.Context, items []OrderItem, totalInCents int) (string, error)

	// CaptureOrder collects the funds of a previously created payment-order
	CaptureOrder(c context.Context, paymentOrderID string) (CaptureResult, error)
}

type paypalPayer struct {
	baseURL string
	client  myhttpclient.HTTPSender
}

func NewPayer(baseURL string, client myhttpclient.HTTPSender) Payer {
	return &paypalPayer{
		baseURL: baseURL,
		client:  client,
	}
}

func (p *paypalPayer) CreateOrder(c context.Context, items []OrderItem, totalInCents int) (string, error) {
	requestBody, err := json.Marshal(createOrderRequest{
		Items: items,
		Total: totalInCents,
	})
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error marshalling create-order request: %s", err))
	}

	httpStatus, responseBody, err := p.client.Send(c, "POST", p.baseURL+"/v1/orders", requestBody)
	if err != nil {
		return "", myerrors.NewUnavailableError(fmt.Errorf("error creating payment-order: %s", err))
	}
	if httpStatus < 200 || httpStatus >= 300 {
		return "", myerrors.NewUnavailableError(fmt.Errorf("create-order failed with http status %d", httpStatus))
	}

	response := createOrderResponse{}
	err = json.Unmarshal(responseBody, &response)
	if err != nil {
		return "", myerrors.NewUnavailableError(fmt.Errorf("error unmarshalling create-order response: %s", err))
	}
	if response.ID == "" {
		return "", myerrors.NewUnavailableError(fmt.Errorf("create-order response lacks an id"))
	}

	return response.ID, nil
}

func (p *paypalPayer) CaptureOrder(c context.Context, paymentOrderID string) (CaptureResult, error) {
	url := fmt.Sprintf("%s/v1/orders/%s/capture", p.baseURL, paymentOrderID)

	httpStatus, responseBody, err := p.client.Send(c, "POST", url, nil)
	if err != nil {
		return CaptureResult{}, myerrors.NewUnavailableError(fmt.Errorf("error capturing payment-order %s: %s", paymentOrderID, err))
	}
	if httpStatus < 200 || httpStatus >= 300 {
		return CaptureResult{}, myerrors.NewUnavailableError(fmt.Errorf("capture-order %s failed with http status %d", paymentOrderID, httpStatus))
	}

	response := captureOrderResponse{}
	err = json.Unmarshal(responseBody, &response)
	if err != nil {
		return CaptureResult{}, myerrors.NewUnavailableError(fmt.Errorf("error unmarshalling capture-order response: %s", err))
	}

	return CaptureResult{
		PaymentOrderID: response.ID,
		Status:         response.Status,
	}, nil
}
