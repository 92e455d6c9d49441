// file: internals/features/students/model/student_model.go
package model

import "time"

// StudentRecord is owned by the provisioning side of the system; the payment
// ledger only reads it for existence checks and display names.
type StudentRecord struct {
	StudentID            string     `json:"student_id"              gorm:"column:student_id;type:varchar(20);primaryKey"`
	StudentEmail         string     `json:"student_email"           gorm:"column:student_email;type:varchar(254);uniqueIndex;not null"`
	StudentFullName      string     `json:"student_full_name"       gorm:"column:student_full_name;type:varchar(100);not null"`
	StudentFirstName     string     `json:"student_first_name"      gorm:"column:student_first_name;type:varchar(50);not null;default:''"`
	StudentMiddleName    string     `json:"student_middle_name"     gorm:"column:student_middle_name;type:varchar(50);not null;default:''"`
	StudentLastName      string     `json:"student_last_name"       gorm:"column:student_last_name;type:varchar(50);not null;default:''"`
	StudentContactNumber *string    `json:"student_contact_number,omitempty" gorm:"column:student_contact_number;type:varchar(15)"`
	StudentBirthdate     *time.Time `json:"student_birthdate,omitempty"      gorm:"column:student_birthdate;type:date"`
	StudentAddress       *string    `json:"student_address,omitempty"        gorm:"column:student_address;type:text"`
}

func (StudentRecord) TableName() string {
	return "student_records"
}
