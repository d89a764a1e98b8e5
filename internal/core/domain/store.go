package domain

import (
	"crypto/md5" //nolint:gosec // identifier derivation, not security
	"encoding/hex"
)

// Store is the remote representation of the local shop.
type Store struct {
	ID            string   `json:"id" validate:"required"`
	ListID        string   `json:"list_id,omitempty"`
	Name          string   `json:"name" validate:"required"`
	Platform      string   `json:"platform,omitempty"`
	Domain        string   `json:"domain,omitempty"`
	EmailAddress  string   `json:"email_address,omitempty" validate:"omitempty,email"`
	CurrencyCode  string   `json:"currency_code" validate:"required,len=3"`
	MoneyFormat   string   `json:"money_format,omitempty"`
	PrimaryLocale string   `json:"primary_locale,omitempty"`
	Timezone      string   `json:"timezone,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Address       *Address `json:"address,omitempty"`
}

// EntityID returns the store identifier.
func (s *Store) EntityID() string { return s.ID }

// StoreIDFromSiteURL derives the stable store identifier from the shop's URL.
func StoreIDFromSiteURL(siteURL string) string {
	sum := md5.Sum([]byte(siteURL)) //nolint:gosec // identifier derivation
	return hex.EncodeToString(sum[:])
}

// Address is a postal address attached to stores, customers and orders.
type Address struct {
	Name         string `json:"name,omitempty"`
	Company      string `json:"company,omitempty"`
	Address1     string `json:"address1,omitempty"`
	Address2     string `json:"address2,omitempty"`
	City         string `json:"city,omitempty"`
	Province     string `json:"province,omitempty"`
	ProvinceCode string `json:"province_code,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
	Phone        string `json:"phone,omitempty"`
}
