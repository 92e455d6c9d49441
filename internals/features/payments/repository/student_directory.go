// file: internals/features/payments/repository/student_directory.go
package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"

	studentModel "feetracker_backend/internals/features/students/model"
)

// StudentDirectory is the read-only view of student records the ledger
// needs: existence checks before admitting a payment and display names for
// balance/report views. Account CRUD stays with the provisioning side.
type StudentDirectory interface {
	Exists(ctx context.Context, studentID string) (bool, error)
	FullName(ctx context.Context, studentID string) (string, error)
}

/* ===== GORM ===== */

type GormStudentDirectory struct {
	DB *gorm.DB
}

func NewGormStudentDirectory(db *gorm.DB) *GormStudentDirectory {
	return &GormStudentDirectory{DB: db}
}

var _ StudentDirectory = (*GormStudentDirectory)(nil)

func (d *GormStudentDirectory) Exists(ctx context.Context, studentID string) (bool, error) {
	var count int64
	err := d.DB.WithContext(ctx).
		Model(&studentModel.StudentRecord{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count > 0, err
}

func (d *GormStudentDirectory) FullName(ctx context.Context, studentID string) (string, error) {
	var name string
	err := d.DB.WithContext(ctx).
		Model(&studentModel.StudentRecord{}).
		Select("student_full_name").
		Where("student_id = ?", studentID).
		Scan(&name).Error
	return name, err
}

/* ===== In-memory (tests) ===== */

type MemoryStudentDirectory struct {
	mu    sync.RWMutex
	names map[string]string
}

func NewMemoryStudentDirectory() *MemoryStudentDirectory {
	return &MemoryStudentDirectory{names: make(map[string]string)}
}

var _ StudentDirectory = (*MemoryStudentDirectory)(nil)

func (d *MemoryStudentDirectory) Add(studentID, fullName string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.names[studentID] = fullName
}

func (d *MemoryStudentDirectory) Exists(_ context.Context, studentID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.names[studentID]
	return ok, nil
}

func (d *MemoryStudentDirectory) FullName(_ context.Context, studentID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.names[studentID], nil
}
