package paypalgateway

// OrderItem describes one cart line on the gateway's wire format. Amounts
// are in cents.
type OrderItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   int    `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
}

type createOrderRequest struct {
	Items []OrderItem `json:"items"`
	Total int         `json:"total"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

type captureOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type CaptureResult struct {
	PaymentOrderID string
	Status         string
}

func (r CaptureResult) IsCompleted() bool {
	return r.Status == "COMPLETED"
}
