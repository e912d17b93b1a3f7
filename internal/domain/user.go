package domain

import "time"

// Roles stored on user records. Staff accounts are created by admins through
// the staff endpoints; customer accounts register through the mobile app.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleUser  = "user"
)

// User is one app account as stored in the users table. The same mobile
// number may appear on several records (multi-device or duplicate accounts);
// token resolution unions the tokens of every matching record.
type User struct {
	UID         string     `json:"id" dynamodbav:"uid"`
	Email       string     `json:"email" dynamodbav:"email"`
	Name        string     `json:"name" dynamodbav:"name"`
	Mobile      string     `json:"mobile" dynamodbav:"mobile"`
	Role        string     `json:"role" dynamodbav:"role"`
	BusinessID  string     `json:"business_id,omitempty" dynamodbav:"business_id"`
	Permissions []string   `json:"permissions,omitempty" dynamodbav:"permissions"`
	// FCMTokens is the current multi-device token list. FCMToken is the
	// legacy single-token field still present on older records; when the
	// list is non-empty it takes precedence over the legacy field.
	FCMTokens []string   `json:"fcm_tokens,omitempty" dynamodbav:"fcm_tokens"`
	FCMToken  string     `json:"fcm_token,omitempty" dynamodbav:"fcm_token"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateStaffRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8,max=72"`
	Name        string   `json:"name" validate:"required"`
	Mobile      string   `json:"mobile" validate:"required"`
	Permissions []string `json:"permissions"`
	BusinessID  string   `json:"businessId" validate:"required"`
}
