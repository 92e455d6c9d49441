// file: internals/features/payments/repository/gorm_store.go
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"feetracker_backend/internals/features/payments/model"
)

// GormLedgerStore persists the ledger in Postgres.
type GormLedgerStore struct {
	DB *gorm.DB
}

func NewGormLedgerStore(db *gorm.DB) *GormLedgerStore {
	return &GormLedgerStore{DB: db}
}

var _ LedgerStore = (*GormLedgerStore)(nil)

func (s *GormLedgerStore) Insert(ctx context.Context, p *model.StudentPayment) error {
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateKey
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (s *GormLedgerStore) Delete(ctx context.Context, receiptID string) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("payment_receipt_id = ?", receiptID).
		Delete(&model.StudentPayment{})
	return res.RowsAffected, res.Error
}

func (s *GormLedgerStore) MaxIdentifier(ctx context.Context, prefix string) (string, error) {
	var id string
	err := s.DB.WithContext(ctx).
		Model(&model.StudentPayment{}).
		Select("payment_receipt_id").
		Where("payment_receipt_id LIKE ?", prefix+"%").
		// sequence widths can outgrow the zero padding, so lexicographic
		// order alone is wrong past 9999
		Order("length(payment_receipt_id) DESC, payment_receipt_id DESC").
		Limit(1).
		Scan(&id).Error
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *GormLedgerStore) SumAmount(ctx context.Context, f Filter) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := applyFilter(s.DB.WithContext(ctx).Model(&model.StudentPayment{}), f).
		Select("COALESCE(SUM(payment_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (s *GormLedgerStore) Query(ctx context.Context, f Filter, order Order, limit int) ([]model.StudentPayment, error) {
	q := applyFilter(s.DB.WithContext(ctx).Model(&model.StudentPayment{}), f)
	switch order {
	case OrderReceiptDesc:
		q = q.Order("length(payment_receipt_id) DESC, payment_receipt_id DESC")
	default:
		q = q.Order("payment_recorded_at DESC, payment_row_id DESC")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []model.StudentPayment
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormLedgerStore) SumByStudent(ctx context.Context, f Filter) (map[string]decimal.Decimal, error) {
	type row struct {
		StudentID string          `gorm:"column:payment_student_id"`
		Total     decimal.Decimal `gorm:"column:total"`
	}
	var rows []row
	err := applyFilter(s.DB.WithContext(ctx).Model(&model.StudentPayment{}), f).
		Select("payment_student_id, SUM(payment_amount) AS total").
		Group("payment_student_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		out[r.StudentID] = r.Total
	}
	return out, nil
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.StudentID != nil {
		q = q.Where("payment_student_id = ?", *f.StudentID)
	}
	if f.Semester != nil {
		q = q.Where("payment_semester = ?", *f.Semester)
	}
	if f.SchoolYear != nil {
		q = q.Where("payment_school_year = ?", *f.SchoolYear)
	}
	if f.From != nil {
		q = q.Where("payment_recorded_at >= ?", *f.From)
	}
	if f.Until != nil {
		q = q.Where("payment_recorded_at < ?", *f.Until)
	}
	return q
}
