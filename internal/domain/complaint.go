package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// Complaint represents one raw consumer-complaint record as returned by the
// CFPB Consumer Complaint Database search API. Records land unmodified in the
// raw table; the transform models build the analytical marts on top of it.
type Complaint struct {
	ComplaintID           string      `gorm:"type:text;primaryKey" json:"complaint_id"`
	DateReceived          Date        `gorm:"type:text;not null;index:idx_raw_complaints_received" json:"date_received"`
	Product               string      `gorm:"type:text;index:idx_raw_complaints_product" json:"product"`
	SubProduct            string      `gorm:"type:text" json:"sub_product"`
	Issue                 string      `gorm:"type:text" json:"issue"`
	SubIssue              string      `gorm:"type:text" json:"sub_issue"`
	Company               string      `gorm:"type:text;not null;index:idx_raw_complaints_company" json:"company"`
	State                 string      `gorm:"type:text" json:"state"`
	ZipCode               string      `gorm:"type:text" json:"zip_code"`
	SubmittedVia          string      `gorm:"type:text" json:"submitted_via"`
	CompanyResponse       string      `gorm:"type:text" json:"company_response"`
	CompanyPublicResponse string      `gorm:"type:text" json:"company_public_response"`
	ConsumerDisputed      string      `gorm:"type:text" json:"consumer_disputed"`
	Timely                string      `gorm:"type:text" json:"timely"`
	DateSentToCompany     Date        `gorm:"type:text" json:"date_sent_to_company"`
	Narrative             string      `gorm:"type:text" json:"complaint_what_happened,omitempty"`
	Tags                  StringArray `gorm:"type:text" json:"tags"`
	BatchID               string      `gorm:"type:text;index:idx_raw_complaints_batch" json:"batch_id"`
	LoadedAt              time.Time   `json:"loaded_at"`
}

// TableName returns the database table name for Complaint.
func (Complaint) TableName() string {
	return "raw_complaints"
}
