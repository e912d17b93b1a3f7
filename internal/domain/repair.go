package domain

import "time"

// Repair is one repair job as stored in the repairs table. For notification
// purposes only the business/customer-mobile association matters: a broadcast
// targets every distinct customer mobile with at least one repair under the
// business.
type Repair struct {
	RepairID       string    `json:"id" dynamodbav:"repair_id"`
	BusinessID     string    `json:"business_id" dynamodbav:"business_id"`
	CustomerMobile string    `json:"customer_mobile" dynamodbav:"customer_mobile"`
	Device         string    `json:"device,omitempty" dynamodbav:"device"`
	Status         string    `json:"status,omitempty" dynamodbav:"status"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}
