package vault

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Backup mirrors the top-level JSON document of a .2fas backup file.
// In a password-protected backup Services is empty and the account list
// lives in ServicesEncrypted.
type Backup struct {
	Services          []Service         `json:"services"`
	Groups            []json.RawMessage `json:"groups"`
	UpdatedAt         int64             `json:"updatedAt"`
	SchemaVersion     int               `json:"schemaVersion"`
	AppVersionCode    int               `json:"appVersionCode"`
	AppVersionName    string            `json:"appVersionName"`
	AppOrigin         string            `json:"appOrigin"`
	ServicesEncrypted string            `json:"servicesEncrypted"`
	Reference         string            `json:"reference"`
}

// Service is one OTP account entry.
type Service struct {
	Name      string `json:"name"`
	Secret    string `json:"secret"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
	OTP       OTP    `json:"otp"`
	Order     *Order `json:"order,omitempty"`
}

// OTP holds the token parameters of a service.
type OTP struct {
	Label     string `json:"label,omitempty"`
	Account   string `json:"account,omitempty"`
	Issuer    string `json:"issuer,omitempty"`
	Digits    int    `json:"digits"`
	Period    int    `json:"period,omitempty"`
	Algorithm string `json:"algorithm"`
	TokenType string `json:"tokenType,omitempty"`
	Source    string `json:"source,omitempty"`
}

// Order holds the display position of a service in the app.
type Order struct {
	Position int `json:"position"`
}

// ParseBackup decodes a raw backup document. A document whose top level is
// not a JSON object is rejected as an invalid backup; a document that is not
// JSON at all is reported as a parse error.
func ParseBackup(raw []byte) (*Backup, error) {
	var b Backup
	if err := json.Unmarshal(raw, &b); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrInvalidBackup
		}
		return nil, fmt.Errorf("parse backup: %w", err)
	}
	return &b, nil
}

// DecodeServices decodes decrypted plaintext into the service list.
// Anything that is not a JSON array of services is rejected: authenticated
// decryption guarantees the bytes are exactly what was encrypted, so a
// non-list plaintext means the backup never contained one.
func DecodeServices(plaintext []byte) ([]Service, error) {
	var services []Service
	if err := json.Unmarshal(plaintext, &services); err != nil {
		return nil, ErrNotServiceList
	}
	return services, nil
}
