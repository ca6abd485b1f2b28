// internal/model/contact.go
package model

// Contact is a person reachable by email and/or phone. Email and Phone are nil
// when the store holds NULL for them.
type Contact struct {
    ID    int     `db:"id" json:"id"`
    Name  string  `db:"name" json:"name"`
    Email *string `db:"email" json:"email"`
    Phone *string `db:"phone" json:"phone"`
}

// HasEmail reports whether the contact can receive email.
func (c *Contact) HasEmail() bool {
    return c.Email != nil && *c.Email != ""
}

// HasPhone reports whether the contact can receive SMS/WhatsApp.
func (c *Contact) HasPhone() bool {
    return c.Phone != nil && *c.Phone != ""
}

// NewContact is the input for creating a contact.
type NewContact struct {
    Name  string  `json:"name"`
    Email *string `json:"email"`
    Phone *string `json:"phone"`
}
