package models

// Client represents a customer that places orders
type Client struct {
	ID      uint   `gorm:"primaryKey" json:"id" yaml:"id"`
	Name    string `gorm:"not null" json:"name" yaml:"name" validate:"notblank"`
	Email   string `gorm:"not null" json:"email" yaml:"email" validate:"shopemail"`
	Phone   string `gorm:"not null" json:"phone" yaml:"phone" validate:"phone"`
	Address string `json:"address" yaml:"address"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// Validate checks the client's fields before it is persisted
func (c Client) Validate() error {
	return validateStruct(c)
}

// ValidateEmail checks an email address against the accepted format
func ValidateEmail(email string) error {
	return validateValue(email, "shopemail", "email")
}

// ValidatePhone accepts 10 to 15 digits, spaces or dashes with an optional leading +
func ValidatePhone(phone string) error {
	return validateValue(phone, "phone", "phone")
}
