package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/carelink/internal/domain/directory"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/models"
)

type DoctorGormRepository struct {
	db *gorm.DB
}

func NewDoctorGormRepository(db *gorm.DB) *DoctorGormRepository {
	return &DoctorGormRepository{db: db}
}

func (r *DoctorGormRepository) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&doctors).Error; err != nil {
		return nil, httperr.ErrStore("list_doctors", err)
	}
	return doctors, nil
}

func (r *DoctorGormRepository) GetDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	var d models.Doctor
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&d).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("doctor_not_found")
		}
		return nil, httperr.ErrStore("get_doctor", err)
	}
	return &d, nil
}

var _ directory.Directory = (*DoctorGormRepository)(nil)
