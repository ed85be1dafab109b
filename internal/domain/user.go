package domain

type User struct {
	ID                     int64   `db:"id"`
	ExternalID             string  `db:"external_id"`
	Username               string  `db:"username"`
	Email                  string  `db:"email"`
	FirstName              string  `db:"first_name"`
	LastName               string  `db:"last_name"`
	PhoneNumber            *string `db:"phone_number"`
	Designation            *string `db:"designation"`
	HashedPassword         *string `db:"hashed_password"`
	IsActive               bool    `db:"is_active"`
	IsEmailVerified        bool    `db:"is_email_verified"`
	IsPhoneVerified        bool    `db:"is_phone_verified"`
	FailedLoginAttempts    int     `db:"failed_login_attempts"`
	LockedUntil            *int64  `db:"locked_until"`
	LastLogin              *int64  `db:"last_login"`
	RefreshToken           *string `db:"refresh_token"`
	RefreshTokenExpiryTime *int64  `db:"refresh_token_expiry_time"`
	CreatedAt              int64   `db:"created_at"`
	UpdatedAt              int64   `db:"updated_at"`
	DeletedAt              *int64  `db:"deleted_at"`
}

type Role struct {
	ID          int64   `db:"id"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
	CreatedAt   int64   `db:"created_at"`
	UpdatedAt   int64   `db:"updated_at"`
}

type UserRole struct {
	ID         int64  `db:"id"`
	UserID     int64  `db:"user_id"`
	RoleID     int64  `db:"role_id"`
	IsActive   bool   `db:"is_active"`
	AssignedBy *int64 `db:"assigned_by"`
	AssignedAt int64  `db:"assigned_at"`
}
